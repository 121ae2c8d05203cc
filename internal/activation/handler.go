// Package activation implements the license activation protocol: request
// validation, per-license quota enforcement and the activate/deactivate
// state transitions of installation instances.
package activation

import (
	"context"
	"strings"
	"time"
	"unicode"

	"license-activation-service/internal/model"

	"github.com/go-playground/validator/v10"
)

// Request type values accepted on the wire.
const (
	RequestActivate   = "activate"
	RequestDeactivate = "deactivate"
)

// LicenseResolver loads the License aggregate (products and activations
// included, activations in insertion order) for a key. A nil license with a
// nil error means the key is unknown.
type LicenseResolver interface {
	Resolve(ctx context.Context, key string) (*model.License, error)
}

// ActivationRepository persists activation records. Persist returns the
// authoritative stored row; a successful insert assigns a non-zero ID.
type ActivationRepository interface {
	ForLicense(ctx context.Context, key string) ([]model.Activation, error)
	Persist(ctx context.Context, a model.Activation) (model.Activation, error)
}

// ResponseFilter may extend or rewrite a success payload before it is
// serialized to the client.
type ResponseFilter func(map[string]any) map[string]any

// Request is one normalized protocol request. All fields arrive as
// untrusted text; Handle sanitizes them before any check runs.
type Request struct {
	Type         string // "activate" or "deactivate"
	LicenseKey   string
	APIProductID string
	Instance     string
	Email        string // activate only
}

// Handler is the sole entry point for activate and deactivate operations.
type Handler struct {
	licenses    LicenseResolver
	activations ActivationRepository
	accountURL  string

	// Filter, when set, is applied to every success payload before it is
	// returned. The zero value passes payloads through unchanged.
	Filter ResponseFilter

	locks *keyLock
	now   func() time.Time
}

var validate = validator.New()

func NewHandler(licenses LicenseResolver, activations ActivationRepository, accountURL string) *Handler {
	return &Handler{
		licenses:    licenses,
		activations: activations,
		accountURL:  accountURL,
		locks:       newKeyLock(),
		now:         time.Now,
	}
}

// Handle validates the request, dispatches to activate or deactivate and
// returns the success payload. Protocol failures come back as *Error; any
// other error is an infrastructure fault the transport maps to HTTP 500.
// Validation is strictly ordered and short-circuits: no activation record
// is touched once a check has failed.
func (h *Handler) Handle(ctx context.Context, req Request) (map[string]any, error) {
	req.sanitize()

	if req.Type == "" {
		return nil, errInvalidRequest()
	}
	if req.LicenseKey == "" {
		return nil, errInvalidLicense()
	}
	if req.APIProductID == "" {
		return nil, errInvalidProductID()
	}

	license, err := h.licenses.Resolve(ctx, req.LicenseKey)
	if err != nil {
		return nil, err
	}
	if license == nil || license.Key == "" {
		return nil, errInvalidLicense()
	}
	if license.Expired() {
		return nil, errLicenseExpired()
	}
	if !license.HasProduct(req.APIProductID) {
		return nil, errProductNotGranted()
	}

	switch req.Type {
	case RequestActivate:
		return h.activate(ctx, license, req)
	case RequestDeactivate:
		return h.deactivate(ctx, license, req)
	default:
		return nil, errInvalidRequest()
	}
}

func (h *Handler) activate(ctx context.Context, license *model.License, req Request) (map[string]any, error) {
	// The email check lives here because deactivation requests carry no email.
	if req.Email == "" || validate.Var(req.Email, "email") != nil || req.Email != license.ActivationEmail {
		return nil, errInvalidEmail(req.Email)
	}
	if req.Instance == "" {
		return nil, errInvalidRequest()
	}

	// Quota arithmetic and the persist must not interleave with another
	// activation of the same license.
	unlock := h.locks.Lock(license.Key)
	defer unlock()

	existing, err := h.activations.ForLicense(ctx, license.Key)
	if err != nil {
		return nil, err
	}

	activeInstances := make(map[string]bool)
	activeCount := 0
	for _, a := range existing {
		if a.Active {
			activeInstances[a.Instance] = true
			activeCount++
		}
	}

	// Re-activating an already-active instance never consumes a slot, so
	// the limit only blocks instances not currently active.
	if license.ActivationLimit > 0 && activeCount >= license.ActivationLimit && !activeInstances[req.Instance] {
		return nil, errLimitReached(h.accountURL)
	}

	record, found := findInstance(existing, req.Instance)
	if found {
		record.Active = true
		record.ActivationDate = h.now()
	} else {
		record = model.Activation{
			LicenseKey:     license.Key,
			ApiProductID:   req.APIProductID,
			Instance:       req.Instance,
			Active:         true,
			ActivationDate: h.now(),
		}
	}

	saved, err := h.activations.Persist(ctx, record)
	if err != nil || saved.ID == 0 {
		return nil, errActivationFailed()
	}

	activeAfter := activeCount
	if !activeInstances[req.Instance] {
		activeAfter++
	}
	remaining := -1 // unlimited sentinel, part of the wire contract
	if license.ActivationLimit > 0 {
		remaining = license.ActivationLimit - activeAfter
	}

	return h.respond(map[string]any{
		"success":   true,
		"activated": true,
		"remaining": remaining,
	}), nil
}

func (h *Handler) deactivate(ctx context.Context, license *model.License, req Request) (map[string]any, error) {
	if req.Instance == "" {
		return nil, errInvalidRequest()
	}

	unlock := h.locks.Lock(license.Key)
	defer unlock()

	for _, a := range license.Activations {
		if a.Instance != req.Instance {
			continue
		}

		a.Active = false
		a.ActivationDate = h.now()

		saved, err := h.activations.Persist(ctx, a)
		if err != nil || saved.Active {
			return nil, errDeactivationFailed()
		}

		return h.respond(map[string]any{"success": true}), nil
	}

	return nil, errInstanceNotFound()
}

func (h *Handler) respond(payload map[string]any) map[string]any {
	if h.Filter != nil {
		return h.Filter(payload)
	}
	return payload
}

func findInstance(activations []model.Activation, instance string) (model.Activation, bool) {
	for _, a := range activations {
		if a.Instance == instance {
			return a, true
		}
	}
	return model.Activation{}, false
}

func (r *Request) sanitize() {
	r.Type = Sanitize(r.Type)
	r.LicenseKey = Sanitize(r.LicenseKey)
	r.APIProductID = Sanitize(r.APIProductID)
	r.Instance = Sanitize(r.Instance)
	r.Email = Sanitize(r.Email)
}

// Sanitize trims surrounding whitespace and strips control runes from one
// inbound value.
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
