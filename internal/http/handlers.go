package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"foodshare/internal/core"
	"foodshare/internal/log"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	providers, err := s.store.ListProviders(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List providers error", log.FieldError, err)
	}
	receivers, err := s.store.ListReceivers(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List receivers error", log.FieldError, err)
	}

	data := struct {
		Today         string
		Providers     []core.Provider
		Receivers     []core.Receiver
		ProviderTypes []core.ProviderType
		FoodTypes     []core.FoodType
		MealTypes     []core.MealType
	}{
		Today:         time.Now().Format("2006-01-02"),
		Providers:     providers,
		Receivers:     receivers,
		ProviderTypes: core.ProviderTypes(),
		FoodTypes:     core.FoodTypes(),
		MealTypes:     core.MealTypes(),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", log.FieldError, err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", log.FieldError, err, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}

func writeSuccess(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">` + template.HTMLEscapeString(msg) + `</div>`))
}

func (s *Server) handleCreateProvider(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	ptype, err := core.ParseProviderType(r.Form.Get("type"), false)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid provider type")
		return
	}

	p := core.Provider{
		Name:    sanitizeInput(r.Form.Get("name")),
		Type:    ptype,
		Address: sanitizeInput(r.Form.Get("address")),
		City:    sanitizeInput(r.Form.Get("city")),
		Contact: sanitizeInput(r.Form.Get("contact")),
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid provider: "+err.Error())
		return
	}

	id, err := s.store.CreateProvider(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Provider create error", log.FieldError, err, "name", p.Name)
		writeError(w, http.StatusInternalServerError, "Could not save provider")
		return
	}

	s.invalidate()
	w.Header().Set("HX-Trigger", `{"provider:created": {"id": `+strconv.FormatInt(id, 10)+`}}`)
	writeSuccess(w, "Provider registered (#"+strconv.FormatInt(id, 10)+"): "+p.Name)
}

func (s *Server) handleDeleteProvider(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.DeleteProvider(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Provider delete error", log.FieldError, err, log.FieldProviderID, id)
		writeError(w, http.StatusInternalServerError, "Could not delete provider")
		return
	}

	s.invalidate()
	writeSuccess(w, "Provider #"+strconv.FormatInt(id, 10)+" removed")
}

func (s *Server) handleCreateReceiver(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	rec := core.Receiver{
		Name:    sanitizeInput(r.Form.Get("name")),
		Type:    sanitizeInput(r.Form.Get("type")),
		City:    sanitizeInput(r.Form.Get("city")),
		Contact: sanitizeInput(r.Form.Get("contact")),
	}
	if err := rec.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid receiver: "+err.Error())
		return
	}

	id, err := s.store.CreateReceiver(r.Context(), rec)
	if err != nil {
		slog.ErrorContext(r.Context(), "Receiver create error", log.FieldError, err, "name", rec.Name)
		writeError(w, http.StatusInternalServerError, "Could not save receiver")
		return
	}

	writeSuccess(w, "Receiver registered (#"+strconv.FormatInt(id, 10)+"): "+rec.Name)
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	providerID, err := parseID(r, "provider_id")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	qty, err := parseQuantity(r.Form.Get("quantity"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid quantity")
		return
	}

	expiry, err := parseFormDate(r.Form.Get("expiry_date"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid expiry date")
		return
	}

	ptype, err := core.ParseProviderType(r.Form.Get("provider_type"), false)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid provider type")
		return
	}

	l := core.Listing{
		FoodName:     sanitizeInput(r.Form.Get("food_name")),
		Quantity:     qty,
		ListedAt:     time.Now().UTC(),
		ExpiresAt:    expiry,
		ProviderID:   providerID,
		ProviderType: ptype,
		City:         sanitizeInput(r.Form.Get("city")),
		FoodType:     core.FoodType(sanitizeInput(r.Form.Get("food_type"))),
		MealType:     core.MealType(sanitizeInput(r.Form.Get("meal_type"))),
	}
	if err := l.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid listing: "+err.Error())
		return
	}

	id, err := s.store.CreateListing(r.Context(), l)
	if err != nil {
		slog.ErrorContext(r.Context(), "Listing create error", log.FieldError, err, log.FieldFoodName, l.FoodName, log.FieldProviderID, providerID)
		writeError(w, http.StatusInternalServerError, "Could not save listing")
		return
	}

	s.invalidate()
	w.Header().Set("HX-Trigger", `{"listing:created": {"id": `+strconv.FormatInt(id, 10)+`}}`)
	writeSuccess(w, "Listing registered (#"+strconv.FormatInt(id, 10)+"): "+l.FoodName)
}

func (s *Server) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.DeleteListing(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Listing delete error", log.FieldError, err, log.FieldListingID, id)
		writeError(w, http.StatusInternalServerError, "Could not delete listing")
		return
	}

	s.invalidate()
	writeSuccess(w, "Listing #"+strconv.FormatInt(id, 10)+" removed")
}

func (s *Server) handleCreateClaim(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	listingID, err := parseID(r, "listing_id")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	receiverID, err := parseID(r, "receiver_id")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	c := core.Claim{
		ListingID:  listingID,
		ReceiverID: receiverID,
		Status:     core.ClaimPending,
		ClaimedAt:  time.Now().UTC(),
	}
	if err := c.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid claim: "+err.Error())
		return
	}

	id, err := s.store.CreateClaim(r.Context(), c)
	if err != nil {
		slog.ErrorContext(r.Context(), "Claim create error", log.FieldError, err, log.FieldListingID, listingID, log.FieldReceiverID, receiverID)
		writeError(w, http.StatusInternalServerError, "Could not save claim")
		return
	}

	s.invalidate()
	w.Header().Set("HX-Trigger", `{"claim:created": {"id": `+strconv.FormatInt(id, 10)+`}}`)
	writeSuccess(w, "Claim registered (#"+strconv.FormatInt(id, 10)+")")
}

func (s *Server) handleResolveClaim(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	status, err := core.ParseClaimStatus(r.Form.Get("status"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid status")
		return
	}

	if err := s.store.ResolveClaim(r.Context(), id, status); err != nil {
		slog.ErrorContext(r.Context(), "Claim resolve error", log.FieldError, err, log.FieldClaimID, id, log.FieldClaimStatus, status)
		writeError(w, http.StatusInternalServerError, "Could not update claim")
		return
	}

	s.invalidate()
	w.Header().Set("HX-Trigger", `{"claim:resolved": {"id": `+strconv.FormatInt(id, 10)+`}}`)
	writeSuccess(w, "Claim #"+strconv.FormatInt(id, 10)+" marked "+string(status))
}
