package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/handlers/render"
	"github.com/nkiryanov/mimiplus/internal/logger"
	"github.com/nkiryanov/mimiplus/internal/models"
)

type accountResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	QRCode        string    `json:"qrCode"`
	PointsBalance int64     `json:"pointsBalance"`
	TotalEarned   int64     `json:"totalEarned"`
	TotalRedeemed int64     `json:"totalRedeemed"`
	CreatedAt     time.Time `json:"createdAt"`
}

func newAccountResponse(a models.Account) accountResponse {
	return accountResponse{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		Role:          a.Role,
		Status:        a.Status,
		QRCode:        a.QRCode,
		PointsBalance: a.PointsBalance,
		TotalEarned:   a.TotalEarned,
		TotalRedeemed: a.TotalRedeemed,
		CreatedAt:     a.CreatedAt,
	}
}

type transactionResponse struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"accountId"`
	Kind        string    `json:"kind"`
	Amount      float64   `json:"amount"`
	PointsDelta int64     `json:"pointsDelta"`
	Description string    `json:"description"`
	ProcessedAt time.Time `json:"processedAt"`
}

func newTransactionResponse(t models.Transaction) transactionResponse {
	amount, _ := t.Amount.Float64()
	return transactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Kind:        t.Kind,
		Amount:      amount,
		PointsDelta: t.PointsDelta,
		Description: t.Description,
		ProcessedAt: t.ProcessedAt,
	}
}

func newTransactionsResponse(ts []models.Transaction) []transactionResponse {
	res := make([]transactionResponse, 0, len(ts))
	for _, t := range ts {
		res = append(res, newTransactionResponse(t))
	}
	return res
}

type rewardResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Brand          string    `json:"brand"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	PointsRequired int64     `json:"pointsRequired"`
	Active         bool      `json:"active"`
}

func newRewardResponse(r models.Reward) rewardResponse {
	return rewardResponse{
		ID:             r.ID,
		Name:           r.Name,
		Brand:          r.Brand,
		Category:       r.Category,
		Description:    r.Description,
		PointsRequired: r.PointsRequired,
		Active:         r.Active,
	}
}

type redemptionResponse struct {
	ID          uuid.UUID  `json:"id"`
	AccountID   uuid.UUID  `json:"accountId"`
	RewardID    uuid.UUID  `json:"rewardId"`
	PointsUsed  int64      `json:"pointsUsed"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requestedAt"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`

	// Set for listings only
	AccountName string `json:"accountName,omitempty"`
	RewardName  string `json:"rewardName,omitempty"`
	RewardBrand string `json:"rewardBrand,omitempty"`
}

func newRedemptionResponse(r models.Redemption) redemptionResponse {
	return redemptionResponse{
		ID:          r.ID,
		AccountID:   r.AccountID,
		RewardID:    r.RewardID,
		PointsUsed:  r.PointsUsed,
		Status:      r.Status,
		RequestedAt: r.RequestedAt,
		ResolvedAt:  r.ResolvedAt,
	}
}

func newRedemptionsResponse(rs []models.RedemptionDetails) []redemptionResponse {
	res := make([]redemptionResponse, 0, len(rs))
	for _, r := range rs {
		item := newRedemptionResponse(r.Redemption)
		item.AccountName = r.AccountName
		item.RewardName = r.RewardName
		item.RewardBrand = r.RewardBrand
		res = append(res, item)
	}
	return res
}

// Render error returned by a service
// Unknown errors are logged, the client gets internal error only
func renderServiceError(w http.ResponseWriter, l logger.Logger, msg string, err error) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		l.Error(msg, "error", err)
	}
	render.AppError(w, err)
}

// Read uuid from path parameter
// Writes 400 and returns false if it is not an uuid
func urlUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		render.ServiceError(w, fmt.Sprintf("Invalid '%s' path parameter", name), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// Query parameters parsed one by one, the first malformed one is remembered
type query struct {
	values  map[string][]string
	invalid string
}

func newQuery(r *http.Request) *query {
	return &query{values: r.URL.Query()}
}

func (q *query) String(name string) string {
	vs := q.values[name]
	if len(vs) == 0 {
		return ""
	}
	return strings.TrimSpace(vs[0])
}

// Comma separated or repeated values
func (q *query) List(name string) []string {
	var res []string
	for _, v := range q.values[name] {
		for item := range strings.SplitSeq(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				res = append(res, item)
			}
		}
	}
	return res
}

func (q *query) Int(name string, def int) int {
	v := q.String(name)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		q.fail(name)
		return def
	}
	return n
}

func (q *query) Bool(name string) bool {
	v := q.String(name)
	if v == "" {
		return false
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		q.fail(name)
		return false
	}
	return b
}

func (q *query) UUID(name string) *uuid.UUID {
	v := q.String(name)
	if v == "" {
		return nil
	}

	id, err := uuid.Parse(v)
	if err != nil {
		q.fail(name)
		return nil
	}
	return &id
}

func (q *query) fail(name string) {
	if q.invalid == "" {
		q.invalid = name
	}
}

// Writes 400 and returns false if some parameter was malformed
func (q *query) Valid(w http.ResponseWriter) bool {
	if q.invalid == "" {
		return true
	}
	render.ServiceError(w, fmt.Sprintf("Invalid '%s' query parameter", q.invalid), http.StatusBadRequest)
	return false
}
