// internal/app/features/statuses/statuses.go
package statuses

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/strataadmin/internal/app/store/audit"
	"github.com/dalemusser/strataadmin/internal/app/store/storeutil"
	"github.com/dalemusser/strataadmin/internal/app/system/auditlog"
	"github.com/dalemusser/strataadmin/internal/app/system/authz"
	"github.com/dalemusser/strataadmin/internal/app/system/htmlsanitize"
	"github.com/dalemusser/strataadmin/internal/app/system/httperr"
	"github.com/dalemusser/strataadmin/internal/app/system/inputval"
	"github.com/dalemusser/strataadmin/internal/app/system/jsonutil"
	"github.com/dalemusser/strataadmin/internal/app/system/listquery"
	"github.com/dalemusser/strataadmin/internal/app/system/preware"
	"github.com/dalemusser/strataadmin/internal/app/system/timeouts"
	"github.com/dalemusser/strataadmin/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

//go:generate mockgen -source=statuses.go -destination=../../../mocks/status_store_mock.go -package=mocks -mock_names=Store=MockStatusStore

// Store is the part of statusstore.Store the handlers use.
type Store interface {
	PagedFind(ctx context.Context, q storeutil.PageQuery) (storeutil.Page[models.Status], error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Status, error)
	Create(ctx context.Context, pivot, name string) (models.Status, error)
	FindByIDAndUpdate(ctx context.Context, id primitive.ObjectID, name string) (*models.Status, error)
	FindByIDAndDelete(ctx context.Context, id primitive.ObjectID) (*models.Status, error)
}

// Handler serves the status endpoints.
type Handler struct {
	store        Store
	rejectMarkup bool
	auditLogger  *auditlog.Logger
	logger       *zap.Logger
}

// NewHandler creates a status Handler. auditLogger may be nil. When
// rejectMarkup is set, a pivot or name containing HTML is refused with 400;
// text is otherwise stored exactly as sent.
func NewHandler(store Store, rejectMarkup bool, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		store:        store,
		rejectMarkup: rejectMarkup,
		auditLogger:  auditLogger,
		logger:       logger,
	}
}

// Routes returns a chi.Router with the status routes. Every route requires
// the admin scope; handlers also require the root admin group.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(authz.RequireScope(models.RoleAdmin))
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

type createInput struct {
	Pivot string `json:"pivot" validate:"required,nonblank" label:"Pivot"`
	Name  string `json:"name" validate:"required,nonblank" label:"Name"`
}

type updateInput struct {
	Name string `json:"name" validate:"required,nonblank" label:"Name"`
}

// List handles GET /statuses.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q, err := listquery.Parse(r)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	if !h.precheck(w, r) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "statuses.list")
	defer cancel()

	page, err := h.store.PagedFind(ctx, q)
	if err != nil {
		h.storeError(w, r, "list statuses", err)
		return
	}
	jsonutil.OK(w, page)
}

// Get handles GET /statuses/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.precheck(w, r) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		jsonutil.Message(w, http.StatusNotFound, jsonutil.MsgNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "statuses.get")
	defer cancel()

	st, err := h.store.FindByID(ctx, id)
	if err != nil {
		h.storeError(w, r, "get status", err)
		return
	}
	if st == nil {
		jsonutil.Message(w, http.StatusNotFound, jsonutil.MsgNotFound)
		return
	}
	jsonutil.OK(w, st)
}

// Create handles POST /statuses.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := jsonutil.Decode(r, &in); err != nil {
		httperr.Write(w, r, httperr.BadRequest(err.Error()))
		return
	}
	res := inputval.Validate(in)
	h.checkMarkup(res, "pivot", "Pivot", in.Pivot)
	h.checkMarkup(res, "name", "Name", in.Name)
	if err := res.Err(); err != nil {
		httperr.Write(w, r, err)
		return
	}
	if !h.precheck(w, r) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "statuses.create")
	defer cancel()

	st, err := h.store.Create(ctx, in.Pivot, in.Name)
	if err != nil {
		h.storeError(w, r, "create status", err)
		return
	}

	h.logger.Info("status created", zap.String("status_id", st.ID.Hex()), zap.String("pivot", st.Pivot))
	h.auditLogger.StatusEvent(r, audit.EventStatusCreated, actorID(r), st.ID, st.Name)
	jsonutil.Created(w, st)
}

// Update handles PUT /statuses/{id}. Only the name can change.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in updateInput
	if err := jsonutil.Decode(r, &in); err != nil {
		httperr.Write(w, r, httperr.BadRequest(err.Error()))
		return
	}
	res := inputval.Validate(in)
	h.checkMarkup(res, "name", "Name", in.Name)
	if err := res.Err(); err != nil {
		httperr.Write(w, r, err)
		return
	}
	if !h.precheck(w, r) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		jsonutil.Message(w, http.StatusNotFound, jsonutil.MsgNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "statuses.update")
	defer cancel()

	st, err := h.store.FindByIDAndUpdate(ctx, id, in.Name)
	if err != nil {
		h.storeError(w, r, "update status", err)
		return
	}
	if st == nil {
		jsonutil.Message(w, http.StatusNotFound, jsonutil.MsgNotFound)
		return
	}

	h.auditLogger.StatusEvent(r, audit.EventStatusUpdated, actorID(r), st.ID, st.Name)
	jsonutil.OK(w, st)
}

// Delete handles DELETE /statuses/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.precheck(w, r) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		jsonutil.Message(w, http.StatusNotFound, jsonutil.MsgNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "statuses.delete")
	defer cancel()

	st, err := h.store.FindByIDAndDelete(ctx, id)
	if err != nil {
		h.storeError(w, r, "delete status", err)
		return
	}
	if st == nil {
		jsonutil.Message(w, http.StatusNotFound, jsonutil.MsgNotFound)
		return
	}

	h.logger.Info("status deleted", zap.String("status_id", st.ID.Hex()))
	h.auditLogger.StatusEvent(r, audit.EventStatusDeleted, actorID(r), st.ID, st.Name)
	jsonutil.Message(w, http.StatusOK, jsonutil.MsgSuccess)
}

// checkMarkup adds a field error for HTML in value when markup is refused.
func (h *Handler) checkMarkup(res *inputval.Result, field, label, value string) {
	if h.rejectMarkup && !htmlsanitize.IsPlainText(value) {
		res.Add(field, label, label+" must not contain HTML.")
	}
}

// precheck runs the root-group precondition and writes the failure, if any.
func (h *Handler) precheck(w http.ResponseWriter, r *http.Request) bool {
	if _, err := preware.Run(r.Context(), authz.EnsureAdminGroup(models.GroupRoot)); err != nil {
		h.logger.Debug("status request rejected", zap.Error(err))
		httperr.Write(w, r, err)
		return false
	}
	return true
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, storeutil.ErrInvalidField) {
		httperr.Write(w, r, httperr.BadRequest(err.Error()))
		return
	}
	h.logger.Error(op+" failed", zap.Error(err))
	httperr.Write(w, r, httperr.Internal(err))
}

// pathID parses the {id} URL parameter. A malformed id can never match a
// document, so callers answer it like a miss.
func pathID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

func actorID(r *http.Request) primitive.ObjectID {
	id, _, _ := authz.UserCtx(r.Context())
	return id
}
