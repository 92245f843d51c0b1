package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"donationtracker/internal/domain"
)

const msgDonationNotFound = "Donation not found"

func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	list, err := a.Donations.List(r.Context())
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Donation{}
	}
	a.json(w, http.StatusOK, list)
}

func (a *App) DonationsGet(w http.ResponseWriter, r *http.Request) {
	d, ok, err := a.Donations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	if !ok {
		a.error(w, http.StatusNotFound, msgDonationNotFound, nil)
		return
	}
	a.json(w, http.StatusOK, d)
}

func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var req createDonationRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeRequestError(w, r, err)
		return
	}
	if err := a.checkStruct(req); err != nil {
		a.writeRequestError(w, r, err)
		return
	}
	draft, err := req.toDraft(a.now())
	if err != nil {
		a.writeRequestError(w, r, err)
		return
	}

	d, err := a.Donations.Create(r.Context(), draft)
	if err != nil {
		if domain.IsValidation(err) {
			a.writeRequestError(w, r, domainValidationError(err))
			return
		}
		a.internalError(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, d)
}

func (a *App) DonationsUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateDonationRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeRequestError(w, r, err)
		return
	}
	if err := a.checkStruct(req); err != nil {
		a.writeRequestError(w, r, err)
		return
	}
	patch, err := req.toPatch(a.now())
	if err != nil {
		a.writeRequestError(w, r, err)
		return
	}

	d, ok, err := a.Donations.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		if domain.IsValidation(err) {
			a.writeRequestError(w, r, domainValidationError(err))
			return
		}
		a.internalError(w, r, err)
		return
	}
	if !ok {
		a.error(w, http.StatusNotFound, msgDonationNotFound, nil)
		return
	}
	a.json(w, http.StatusOK, d)
}

func (a *App) DonationsDelete(w http.ResponseWriter, r *http.Request) {
	removed, err := a.Donations.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	if !removed {
		a.error(w, http.StatusNotFound, msgDonationNotFound, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) writeRequestError(w http.ResponseWriter, r *http.Request, err error) {
	var re *requestError
	if !errors.As(err, &re) {
		a.internalError(w, r, err)
		return
	}
	a.Logger.Debug().Str("path", r.URL.Path).Str("reason", re.msg).Msg("rejected request")
	if len(re.details) > 0 {
		a.error(w, http.StatusBadRequest, re.msg, re.details)
		return
	}
	a.error(w, http.StatusBadRequest, re.msg, nil)
}
