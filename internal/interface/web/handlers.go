package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lottopool/poold/internal/core/application"
)

// Pools exposes the pool service over HTTP/JSON. Amounts are encoded as
// decimal strings so values above 2^53 survive JSON number handling.
type Pools struct {
	svc application.Service
}

func NewPoolsHandler(svc application.Service) *Pools {
	return &Pools{svc}
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(WrapHandlerFunc(p.handleCreatePool))
	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{address}/contributions").Methods(http.MethodPost).
		HandlerFunc(WrapHandlerFunc(p.handleContribute))
	sub.Path("/{address}/claims").Methods(http.MethodPost).
		HandlerFunc(WrapHandlerFunc(p.handleClaim))
	sub.Path("/{address}/captures").Methods(http.MethodPost).
		HandlerFunc(WrapHandlerFunc(p.handleCapture))
	sub.Path("/{address}/captures").Methods(http.MethodGet).
		HandlerFunc(WrapHandlerFunc(p.handleGetCaptures))
	sub.Path("/{address}/participants/{participant}/payouts").Methods(http.MethodGet).
		HandlerFunc(WrapHandlerFunc(p.handleGetPayouts))
	sub.Path("/{address}/participants/{participant}/claimable").Methods(http.MethodGet).
		HandlerFunc(WrapHandlerFunc(p.handleGetClaimable))
}

type createPoolRequest struct {
	Creator string `json:"creator"`
	Salt    string `json:"salt"`
}

type poolResponse struct {
	Address      string `json:"address"`
	EngineID     string `json:"engineId"`
	Creator      string `json:"creator"`
	CurrentRound uint64 `json:"currentRound"`
	EngineStake  string `json:"engineStake,omitempty"`
	PendingPrize string `json:"pendingPrize,omitempty"`
}

func (p *Pools) handleCreatePool(w http.ResponseWriter, req *http.Request) error {
	var body createPoolRequest
	if err := ParseJSON(req.Body, &body); err != nil {
		return BadRequest(err)
	}
	if len(body.Creator) <= 0 {
		return BadRequest(fmt.Errorf("missing creator"))
	}

	pool, err := p.svc.CreatePool(req.Context(), body.Creator, body.Salt)
	if err != nil {
		return mapServiceError(err)
	}
	w.WriteHeader(http.StatusCreated)
	return WriteJSON(w, poolResponse{
		Address:      pool.Address,
		EngineID:     pool.EngineID,
		Creator:      pool.Creator,
		CurrentRound: uint64(pool.CurrentRound),
	})
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	info, err := p.svc.GetPoolInfo(req.Context(), mux.Vars(req)["address"])
	if err != nil {
		return mapServiceError(err)
	}
	return WriteJSON(w, poolResponse{
		Address:      info.Pool.Address,
		EngineID:     info.Pool.EngineID,
		Creator:      info.Pool.Creator,
		CurrentRound: uint64(info.Pool.CurrentRound),
		EngineStake:  strconv.FormatUint(info.EngineStake, 10),
		PendingPrize: strconv.FormatUint(info.PendingPrize, 10),
	})
}

type contributeRequest struct {
	Contributor string `json:"contributor"`
	AttributeTo string `json:"attributeTo,omitempty"`
	Referrer    string `json:"referrer,omitempty"`
	Amount      string `json:"amount"`
}

func (p *Pools) handleContribute(w http.ResponseWriter, req *http.Request) error {
	var body contributeRequest
	if err := ParseJSON(req.Body, &body); err != nil {
		return BadRequest(err)
	}
	if len(body.Contributor) <= 0 {
		return BadRequest(fmt.Errorf("missing contributor"))
	}
	amount, err := strconv.ParseUint(body.Amount, 10, 64)
	if err != nil {
		return BadRequest(fmt.Errorf("invalid amount: %s", body.Amount))
	}
	attributeTo := body.AttributeTo
	if len(attributeTo) <= 0 {
		attributeTo = body.Contributor
	}

	stake, err := p.svc.Contribute(
		req.Context(), mux.Vars(req)["address"],
		body.Contributor, attributeTo, body.Referrer, amount,
	)
	if err != nil {
		return mapServiceError(err)
	}
	return WriteJSON(w, map[string]string{"stake": strconv.FormatUint(stake, 10)})
}

type claimRequest struct {
	Participant string `json:"participant"`
}

func (p *Pools) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body claimRequest
	if err := ParseJSON(req.Body, &body); err != nil {
		return BadRequest(err)
	}
	if len(body.Participant) <= 0 {
		return BadRequest(fmt.Errorf("missing participant"))
	}

	paid, err := p.svc.Claim(req.Context(), mux.Vars(req)["address"], body.Participant)
	if err != nil {
		return mapServiceError(err)
	}
	return WriteJSON(w, map[string]string{"paid": strconv.FormatUint(paid, 10)})
}

func (p *Pools) handleCapture(w http.ResponseWriter, req *http.Request) error {
	captured, err := p.svc.CaptureWinnings(req.Context(), mux.Vars(req)["address"])
	if err != nil {
		return mapServiceError(err)
	}
	return WriteJSON(w, map[string]string{"captured": strconv.FormatUint(captured, 10)})
}

type captureResponse struct {
	Round      uint64 `json:"round"`
	Amount     string `json:"amount"`
	CapturedAt int64  `json:"capturedAt"`
}

func (p *Pools) handleGetCaptures(w http.ResponseWriter, req *http.Request) error {
	captures, err := p.svc.GetCaptures(req.Context(), mux.Vars(req)["address"])
	if err != nil {
		return mapServiceError(err)
	}
	out := make([]captureResponse, 0, len(captures))
	for _, c := range captures {
		out = append(out, captureResponse{
			Round:      uint64(c.Round),
			Amount:     strconv.FormatUint(c.Amount, 10),
			CapturedAt: c.CapturedAt,
		})
	}
	return WriteJSON(w, out)
}

type payoutResponse struct {
	Round uint64 `json:"round"`
	Paid  string `json:"paid"`
}

func (p *Pools) handleGetPayouts(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	payouts, err := p.svc.GetPayouts(req.Context(), vars["address"], vars["participant"])
	if err != nil {
		return mapServiceError(err)
	}
	out := make([]payoutResponse, 0, len(payouts))
	for _, payout := range payouts {
		out = append(out, payoutResponse{
			Round: uint64(payout.Round),
			Paid:  strconv.FormatUint(payout.Paid, 10),
		})
	}
	return WriteJSON(w, out)
}

func (p *Pools) handleGetClaimable(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	claimable, err := p.svc.Claimable(req.Context(), vars["address"], vars["participant"])
	if err != nil {
		return mapServiceError(err)
	}
	return WriteJSON(w, map[string]string{"claimable": strconv.FormatUint(claimable, 10)})
}

func mapServiceError(err error) error {
	var notFound application.ErrPoolNotFound
	var exists application.ErrPoolExists
	var invalidAmount application.ErrInvalidAmount
	var duplicate application.ErrDuplicateCapture
	var accounting application.ErrAccountingMismatch
	var payout application.ErrPayoutMismatch

	switch {
	case errors.As(err, &notFound):
		return NotFound(err)
	case errors.As(err, &exists):
		return HTTPError(err, http.StatusConflict)
	case errors.As(err, &invalidAmount):
		return BadRequest(err)
	case errors.As(err, &duplicate):
		return HTTPError(err, http.StatusConflict)
	case errors.As(err, &accounting), errors.As(err, &payout):
		// the upstream engine diverged from the local model
		return HTTPError(err, http.StatusBadGateway)
	default:
		return err
	}
}
