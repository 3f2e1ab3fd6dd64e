package domain

type Event interface {
	IsEvent()
}

func (e PoolCreated) IsEvent()      {}
func (e ContributionMade) IsEvent() {}
func (e PrizeCaptured) IsEvent()    {}
func (e PayoutMade) IsEvent()       {}

type PoolCreated struct {
	Id          string
	PoolAddress string
	EngineID    string
	Creator     string
	Salt        string
	Timestamp   int64
}

type ContributionMade struct {
	Id          string
	PoolAddress string
	Participant string
	Round       RoundID
	Stake       uint64
	Referrer    string
	Timestamp   int64
}

type PrizeCaptured struct {
	Id          string
	PoolAddress string
	Round       RoundID
	Amount      uint64
	Timestamp   int64
}

type PayoutMade struct {
	Id          string
	PoolAddress string
	Participant string
	Round       RoundID
	Amount      uint64
	Timestamp   int64
}
