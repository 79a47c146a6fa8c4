package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rimae/rimae-backend/api/responses"
	"github.com/rimae/rimae-backend/api/validators"
	"github.com/rimae/rimae-backend/internal/catalog"
	pkgerrors "github.com/rimae/rimae-backend/pkg/errors"
	"github.com/rimae/rimae-backend/pkg/logger"
)

// ProductsList returns active products, optionally narrowed by the category
// and gender query parameters.
func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := r.URL.Query()
		products, err := svc.List(r.Context(), catalog.ListFilters{
			Category: validators.SanitizeString(query.Get("category"), 64),
			Gender:   validators.SanitizeString(query.Get("gender"), 32),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		slug := validators.SanitizeString(chi.URLParam(r, "slug"), 128)
		product, err := svc.GetBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
