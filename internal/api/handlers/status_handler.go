package handlers

import (
	"net/http"
	"textcompare-api/internal/services"
	"time"

	"github.com/gorilla/mux"
)

// StatusHandler serves the read-only subscription and billing queries. Both
// delegate to gate/ledger state and mutate nothing.
type StatusHandler struct {
	subscriptionService services.SubscriptionService
	quotaService        services.QuotaService
	usageService        services.UsageService
}

func NewStatusHandler(
	subscriptionService services.SubscriptionService,
	quotaService services.QuotaService,
	usageService services.UsageService,
) *StatusHandler {
	return &StatusHandler{
		subscriptionService: subscriptionService,
		quotaService:        quotaService,
		usageService:        usageService,
	}
}

type subscriptionResponse struct {
	Active    bool       `json:"active"`
	PlanType  string     `json:"plan_type"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

type billingResponse struct {
	TokensRemaining    int       `json:"tokens_remaining"`
	TokenLimit         int       `json:"token_limit"`
	RequestsThisPeriod int       `json:"requests_this_period"`
	PeriodEnd          time.Time `json:"period_end"`
}

func (h *StatusHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	apiKey := mux.Vars(r)["api_key"]

	credential, err := h.quotaService.Balance(r.Context(), apiKey)
	if err != nil {
		writeError(w, err)
		return
	}

	subscription, err := h.subscriptionService.Status(r.Context(), credential.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, subscriptionResponse{
		Active:    subscription.IsActiveAt(time.Now()),
		PlanType:  string(subscription.PlanType),
		StartDate: subscription.StartDate,
		EndDate:   subscription.EndDate,
	})
}

func (h *StatusHandler) GetBilling(w http.ResponseWriter, r *http.Request) {
	apiKey := mux.Vars(r)["api_key"]

	credential, err := h.quotaService.Balance(r.Context(), apiKey)
	if err != nil {
		writeError(w, err)
		return
	}

	usage, err := h.usageService.GetCurrentUsage(credential.Key)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, billingResponse{
		TokensRemaining:    credential.TokensRemaining,
		TokenLimit:         credential.TokenLimit,
		RequestsThisPeriod: usage.CurrentCount,
		PeriodEnd:          usage.PeriodEnd,
	})
}
