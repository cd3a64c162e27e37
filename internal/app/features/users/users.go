// internal/app/features/users/users.go
package users

// Terminology: User Identifiers
//   - UserID / userID / id: The MongoDB ObjectID (_id) of a user record
//   - Username: The lowercase handle a user signs in with
//
// "My" routes take the target id from the caller's credentials, never from
// the path.

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/strataadmin/internal/app/store/audit"
	"github.com/dalemusser/strataadmin/internal/app/store/storeutil"
	userstore "github.com/dalemusser/strataadmin/internal/app/store/users"
	"github.com/dalemusser/strataadmin/internal/app/system/auditlog"
	"github.com/dalemusser/strataadmin/internal/app/system/authutil"
	"github.com/dalemusser/strataadmin/internal/app/system/authz"
	"github.com/dalemusser/strataadmin/internal/app/system/httperr"
	"github.com/dalemusser/strataadmin/internal/app/system/inputval"
	"github.com/dalemusser/strataadmin/internal/app/system/jsonutil"
	"github.com/dalemusser/strataadmin/internal/app/system/listquery"
	"github.com/dalemusser/strataadmin/internal/app/system/normalize"
	"github.com/dalemusser/strataadmin/internal/app/system/preware"
	"github.com/dalemusser/strataadmin/internal/app/system/timeouts"
	"github.com/dalemusser/strataadmin/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

//go:generate mockgen -source=users.go -destination=../../../mocks/user_store_mock.go -package=mocks -mock_names=Store=MockUserStore

// Store is the part of userstore.Store the handlers use.
type Store interface {
	PagedFind(ctx context.Context, f userstore.ListFilter, q storeutil.PageQuery) (storeutil.Page[models.User], error)
	FindByID(ctx context.Context, id primitive.ObjectID, fields string) (*models.User, error)
	UsernameInUse(ctx context.Context, username string, excludeID primitive.ObjectID) (bool, error)
	EmailInUse(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error)
	Create(ctx context.Context, username, password, email string) (models.User, error)
	FindByIDAndUpdate(ctx context.Context, id primitive.ObjectID, upd userstore.Update, fields string) (*models.User, error)
	FindByIDAndDelete(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Projections returned by the self-service routes.
const (
	myProfileFields  = "username email roles"
	myPasswordFields = "username email"
)

// Conflict messages.
const (
	MsgUsernameInUse = "Username already in use."
	MsgEmailInUse    = "Email already in use."
)

// MsgMyNotFound answers GET /users/my when the caller's own record is gone.
const MsgMyNotFound = "Document not found. That is strange."

// Handler serves the user endpoints.
type Handler struct {
	store       Store
	auditLogger *auditlog.Logger
	logger      *zap.Logger
}

// NewHandler creates a user Handler. auditLogger may be nil.
func NewHandler(store Store, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		store:       store,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// Routes returns a chi.Router with the user routes. The /my routes accept
// admin or account callers; all others require the admin scope and, in the
// handlers, the root admin group.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireScope(models.RoleAdmin, models.RoleAccount))
		r.Get("/my", h.GetMy)
		r.Put("/my", h.UpdateMy)
		r.Put("/my/password", h.SetMyPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireScope(models.RoleAdmin))
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Put("/{id}/password", h.SetPassword)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

type listInput struct {
	Username string `json:"username" validate:"token" label:"Username"`
	IsActive string `json:"isActive"`
	Role     string `json:"role" validate:"token" label:"Role"`
}

type createInput struct {
	Username string `json:"username" validate:"required,token" label:"Username"`
	Password string `json:"password" validate:"required,bcryptlen" label:"Password"`
	Email    string `json:"email" validate:"required,email" label:"Email"`
}

type updateInput struct {
	IsActive *bool  `json:"isActive"`
	Username string `json:"username" validate:"required,token" label:"Username"`
	Email    string `json:"email" validate:"required,email" label:"Email"`
}

type updateMyInput struct {
	Username string `json:"username" validate:"required,token" label:"Username"`
	Email    string `json:"email" validate:"required,email" label:"Email"`
}

type passwordInput struct {
	Password string `json:"password" validate:"required,bcryptlen" label:"Password"`
}

// List handles GET /users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q, err := listquery.Parse(r)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	in := listInput{
		Username: listquery.Get(r, "username"),
		IsActive: listquery.Get(r, "isActive"),
		Role:     listquery.Get(r, "role"),
	}
	if err := inputval.Validate(in).Err(); err != nil {
		httperr.Write(w, r, err)
		return
	}
	if !h.precheck(w, r) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "users.list")
	defer cancel()

	page, err := h.store.PagedFind(ctx, listFilter(in), q)
	if err != nil {
		h.storeError(w, r, "list users", err)
		return
	}
	jsonutil.OK(w, page)
}

// listFilter converts validated query values. isActive is true only for the
// literal "true"; any other non-empty value filters on inactive users.
func listFilter(in listInput) userstore.ListFilter {
	f := userstore.ListFilter{
		Username: normalize.Username(in.Username),
		Role:     normalize.Role(in.Role),
	}
	if in.IsActive != "" {
		f.IsActive = models.Bool(in.IsActive == "true")
	}
	return f
}

// Get handles GET /users/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.precheck(w, r) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		jsonutil.Message(w, http.StatusNotFound, jsonutil.MsgNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "users.get")
	defer cancel()

	u, err := h.store.FindByID(ctx, id, "")
	if err != nil {
		h.storeError(w, r, "get user", err)
		return
	}
	if u == nil {
		jsonutil.Message(w, http.StatusNotFound, jsonutil.MsgNotFound)
		return
	}
	jsonutil.OK(w, u)
}

// GetMy handles GET /users/my.
func (h *Handler) GetMy(w http.ResponseWriter, r *http.Request) {
	me, _, ok := authz.UserCtx(r.Context())
	if !ok {
		httperr.Write(w, r, httperr.Unauthorized(authz.MsgMissingAuth))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "users.get_my")
	defer cancel()

	u, err := h.store.FindByID(ctx, me, myProfileFields)
	if err != nil {
		h.storeError(w, r, "get my profile", err)
		return
	}
	if u == nil {
		h.logger.Warn("credentials resolved to a missing user", zap.String("user_id", me.Hex()))
		jsonutil.Message(w, http.StatusNotFound, MsgMyNotFound)
		return
	}
	jsonutil.OK(w, u)
}

// Create handles POST /users.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := jsonutil.Decode(r, &in); err != nil {
		httperr.Write(w, r, httperr.BadRequest(err.Error()))
		return
	}
	if err := inputval.Validate(in).Err(); err != nil {
		httperr.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "users.create")
	defer cancel()

	if _, err := preware.Run(ctx,
		authz.EnsureAdminGroup(models.GroupRoot),
		usernameCheck(h.store, in.Username, primitive.NilObjectID),
		emailCheck(h.store, in.Email, primitive.NilObjectID),
	); err != nil {
		h.rejected(w, r, err)
		return
	}

	u, err := h.store.Create(ctx, in.Username, in.Password, in.Email)
	if err != nil {
		h.storeError(w, r, "create user", err)
		return
	}

	h.logger.Info("user created", zap.String("user_id", u.ID.Hex()), zap.String("username", u.Username))
	h.auditLogger.UserEvent(r, audit.EventUserCreated, actorID(r), u.ID, map[string]string{"username": u.Username})
	jsonutil.Created(w, u)
}

// Update handles PUT /users/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in updateInput
	if err := jsonutil.Decode(r, &in); err != nil {
		httperr.Write(w, r, httperr.BadRequest(err.Error()))
		return
	}
	res := inputval.Validate(in)
	if in.IsActive == nil {
		res.Add("isActive", "Is Active", "Is Active is required.")
	}
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "users.update")
	defer cancel()

	if _, err := preware.Run(ctx,
		usernameCheck(h.store, in.Username, id),
		emailCheck(h.store, in.Email, id),
	); err != nil {
		h.rejected(w, r, err)
		return
	}

	u, err := h.store.FindByIDAndUpdate(ctx, id, userstore.Update{
		IsActive: in.IsActive,
		Username: &in.Username,
		Email:    &in.Email,
	}, "")
	if err != nil {
		h.storeError(w, r, "update user", err)
		return
	}
	if u == nil {
		jsonutil.Message(w, http.StatusNotFound, jsonutil.MsgNotFound)
		return
	}

	h.auditLogger.UserEvent(r, audit.EventUserUpdated, actorID(r), u.ID, map[string]string{
		"username":  u.Username,
		"is_active": boolString(u.Active()),
	})
	jsonutil.OK(w, u)
}

// UpdateMy handles PUT /users/my.
func (h *Handler) UpdateMy(w http.ResponseWriter, r *http.Request) {
	var in updateMyInput
	if err := jsonutil.Decode(r, &in); err != nil {
		httperr.Write(w, r, httperr.BadRequest(err.Error()))
		return
	}
	if err := inputval.Validate(in).Err(); err != nil {
		httperr.Write(w, r, err)
		return
	}
	me, _, ok := authz.UserCtx(r.Context())
	if !ok {
		httperr.Write(w, r, httperr.Unauthorized(authz.MsgMissingAuth))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "users.update_my")
	defer cancel()

	if _, err := preware.Run(ctx,
		usernameCheck(h.store, in.Username, me),
		emailCheck(h.store, in.Email, me),
	); err != nil {
		h.rejected(w, r, err)
		return
	}

	u, err := h.store.FindByIDAndUpdate(ctx, me, userstore.Update{
		Username: &in.Username,
		Email:    &in.Email,
	}, myProfileFields)
	if err != nil {
		h.storeError(w, r, "update my profile", err)
		return
	}
	if u == nil {
		jsonutil.Message(w, http.StatusNotFound, jsonutil.MsgNotFound)
		return
	}

	h.auditLogger.UserEvent(r, audit.EventUserUpdated, me, me, map[string]string{"username": u.Username})
	jsonutil.OK(w, u)
}

// SetPassword handles PUT /users/{id}/password.
func (h *Handler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var in passwordInput
	if err := jsonutil.Decode(r, &in); err != nil {
		httperr.Write(w, r, httperr.BadRequest(err.Error()))
		return
	}
	if err := inputval.Validate(in).Err(); err != nil {
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "users.set_password")
	defer cancel()

	pre, err := preware.Run(ctx, hashPassword(in.Password))
	if err != nil {
		h.rejected(w, r, err)
		return
	}
	hash, _ := preware.Value[string](pre, "password")

	u, err := h.store.FindByIDAndUpdate(ctx, id, userstore.Update{PasswordHash: &hash}, "")
	if err != nil {
		h.storeError(w, r, "set password", err)
		return
	}
	if u == nil {
		jsonutil.Message(w, http.StatusNotFound, jsonutil.MsgNotFound)
		return
	}

	h.auditLogger.PasswordChanged(r, actorID(r), u.ID)
	jsonutil.OK(w, u)
}

// SetMyPassword handles PUT /users/my/password.
func (h *Handler) SetMyPassword(w http.ResponseWriter, r *http.Request) {
	var in passwordInput
	if err := jsonutil.Decode(r, &in); err != nil {
		httperr.Write(w, r, httperr.BadRequest(err.Error()))
		return
	}
	if err := inputval.Validate(in).Err(); err != nil {
		httperr.Write(w, r, err)
		return
	}
	me, _, ok := authz.UserCtx(r.Context())
	if !ok {
		httperr.Write(w, r, httperr.Unauthorized(authz.MsgMissingAuth))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "users.set_my_password")
	defer cancel()

	pre, err := preware.Run(ctx, hashPassword(in.Password))
	if err != nil {
		h.rejected(w, r, err)
		return
	}
	hash, _ := preware.Value[string](pre, "password")

	u, err := h.store.FindByIDAndUpdate(ctx, me, userstore.Update{PasswordHash: &hash}, myPasswordFields)
	if err != nil {
		h.storeError(w, r, "set my password", err)
		return
	}
	if u == nil {
		jsonutil.Message(w, http.StatusNotFound, jsonutil.MsgNotFound)
		return
	}

	h.auditLogger.PasswordChanged(r, me, me)
	jsonutil.OK(w, u)
}

// Delete handles DELETE /users/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.precheck(w, r) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		jsonutil.Message(w, http.StatusNotFound, jsonutil.MsgNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "users.delete")
	defer cancel()

	u, err := h.store.FindByIDAndDelete(ctx, id)
	if err != nil {
		h.storeError(w, r, "delete user", err)
		return
	}
	if u == nil {
		jsonutil.Message(w, http.StatusNotFound, jsonutil.MsgNotFound)
		return
	}

	h.logger.Info("user deleted", zap.String("user_id", u.ID.Hex()), zap.String("username", u.Username))
	h.auditLogger.UserEvent(r, audit.EventUserDeleted, actorID(r), u.ID, map[string]string{"username": u.Username})
	jsonutil.Message(w, http.StatusOK, jsonutil.MsgSuccess)
}

// usernameCheck fails with 409 when another user already holds username.
// A zero excludeID checks every user.
func usernameCheck(store Store, username string, excludeID primitive.ObjectID) preware.Step {
	return preware.Step{
		Assign: "usernameCheck",
		Run: func(ctx context.Context, _ preware.Values) preware.Outcome {
			inUse, err := store.UsernameInUse(ctx, username, excludeID)
			if err != nil {
				return preware.Fail(httperr.Internal(err))
			}
			if inUse {
				return preware.Fail(httperr.Conflict(MsgUsernameInUse))
			}
			return preware.Continue(true)
		},
	}
}

// emailCheck fails with 409 when another user already holds email.
func emailCheck(store Store, email string, excludeID primitive.ObjectID) preware.Step {
	return preware.Step{
		Assign: "emailCheck",
		Run: func(ctx context.Context, _ preware.Values) preware.Outcome {
			inUse, err := store.EmailInUse(ctx, email, excludeID)
			if err != nil {
				return preware.Fail(httperr.Internal(err))
			}
			if inUse {
				return preware.Fail(httperr.Conflict(MsgEmailInUse))
			}
			return preware.Continue(true)
		},
	}
}

// hashPassword computes the bcrypt hash once and assigns it under "password".
func hashPassword(password string) preware.Step {
	return preware.Step{
		Assign: "password",
		Run: func(ctx context.Context, _ preware.Values) preware.Outcome {
			hash, err := authutil.HashPassword(password)
			if err != nil {
				return preware.Fail(httperr.Internal(err))
			}
			return preware.Continue(hash)
		},
	}
}

// precheck runs the root-group precondition on its own.
func (h *Handler) precheck(w http.ResponseWriter, r *http.Request) bool {
	if _, err := preware.Run(r.Context(), authz.EnsureAdminGroup(models.GroupRoot)); err != nil {
		h.rejected(w, r, err)
		return false
	}
	return true
}

// rejected writes a failed precondition.
func (h *Handler) rejected(w http.ResponseWriter, r *http.Request, err error) {
	if httperr.StatusOf(err) >= http.StatusInternalServerError {
		h.logger.Error("user precondition failed", zap.Error(err))
	} else {
		h.logger.Debug("user request rejected", zap.Error(err))
	}
	httperr.Write(w, r, err)
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, userstore.ErrDuplicateUsername):
		httperr.Write(w, r, httperr.Conflict(MsgUsernameInUse))
	case errors.Is(err, userstore.ErrDuplicateEmail):
		httperr.Write(w, r, httperr.Conflict(MsgEmailInUse))
	case errors.Is(err, storeutil.ErrInvalidField):
		httperr.Write(w, r, httperr.BadRequest(err.Error()))
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		httperr.Write(w, r, httperr.Internal(err))
	}
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

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
