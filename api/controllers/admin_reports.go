package controllers

import (
	"net/http"

	"github.com/avinashm/sparkcart-backend/api/responses"
	"github.com/avinashm/sparkcart-backend/internal/reporting"
	"github.com/avinashm/sparkcart-backend/pkg/logger"
)

// AdminOverview serves the cached storewide rollup.
func AdminOverview(svc reporting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		overview, err := svc.AdminOverview(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

// AdminAnalytics serves monthly revenue and best sellers.
func AdminAnalytics(svc reporting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		analytics, err := svc.AdminAnalytics(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, analytics)
	}
}

// AdminCustomers pages through customers with derived spend figures.
func AdminCustomers(svc reporting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.CustomerList(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
