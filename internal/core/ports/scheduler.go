package ports

import "time"

type SchedulerService interface {
	Start()
	Stop()

	// ScheduleTaskEvery runs task repeatedly with the given interval.
	ScheduleTaskEvery(interval time.Duration, task func()) error
	// ScheduleTaskOnce runs task at the given unix time.
	ScheduleTaskOnce(at int64, task func()) error
}
