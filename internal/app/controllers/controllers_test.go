package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/middleware"
	"github.com/yigit/activityhub/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeActivityService struct {
	lastQuery dto.ActivityListQuery
	lastReq   *dto.CreateActivityRequest
	err       error
}

func (f *fakeActivityService) ListActivities(_ context.Context, query dto.ActivityListQuery) (*dto.ActivityListResponse, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ActivityListResponse{Items: []dto.ActivitySummaryResponse{}, Pagination: dto.PaginationInfo{CurrentPage: 1, PageSize: 10}}, nil
}

func (f *fakeActivityService) GetActivity(_ context.Context, id uuid.UUID) (*dto.ActivityDetailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ActivityDetailResponse{ActivitySummaryResponse: dto.ActivitySummaryResponse{ID: id}}, nil
}

func (f *fakeActivityService) CreateActivity(_ context.Context, req *dto.CreateActivityRequest, _ uuid.UUID) (*dto.ActivityDetailResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ActivityDetailResponse{ActivitySummaryResponse: dto.ActivitySummaryResponse{ID: uuid.New(), Title: req.Title}}, nil
}

type fakeParticipationService struct {
	userID uuid.UUID
	err    error
}

func (f *fakeParticipationService) JoinActivity(_ context.Context, activityID, userID uuid.UUID) (*dto.ActivityDetailResponse, error) {
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ActivityDetailResponse{ActivitySummaryResponse: dto.ActivitySummaryResponse{ID: activityID, CurrentParticipants: 1}}, nil
}

func (f *fakeParticipationService) LeaveActivity(_ context.Context, activityID, userID uuid.UUID) (*dto.ActivityDetailResponse, error) {
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ActivityDetailResponse{ActivitySummaryResponse: dto.ActivitySummaryResponse{ID: activityID}}, nil
}

type fakeCommentService struct {
	err error
}

func (f *fakeCommentService) ListComments(context.Context, uuid.UUID) ([]dto.CommentResponse, error) {
	return []dto.CommentResponse{}, f.err
}

func (f *fakeCommentService) CreateComment(_ context.Context, activityID, _ uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.CommentResponse{ID: uuid.New(), ActivityID: activityID, Content: req.Content}, nil
}

func (f *fakeCommentService) UpdateComment(_ context.Context, _, commentID, _ uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.CommentResponse{ID: commentID, Content: req.Content}, nil
}

func (f *fakeCommentService) DeleteComment(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) error {
	return f.err
}

type fakeAuthService struct {
	err error
}

func (f *fakeAuthService) OAuthSignIn(_ context.Context, req *dto.OAuthSignInRequest) (*dto.AuthResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AuthResponse{AccessToken: "token", TokenType: "Bearer", User: dto.UserResponse{Email: req.Email}}, nil
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error { return f.err }

// withUser stands in for JWTAuth
func withUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}
}

func perform(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func TestActivityController_ListActivities(t *testing.T) {
	service := &fakeActivityService{}
	router := gin.New()
	router.GET("/activities", NewActivityController(service).ListActivities)

	w := perform(router, http.MethodGet, "/activities?search=yoga&page=2&limit=5&orderBy=title&date=week", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
	require.NotNil(t, service.lastQuery.Page)
	assert.Equal(t, 2, *service.lastQuery.Page)
	assert.Equal(t, 5, *service.lastQuery.Limit)
	assert.Equal(t, "yoga", *service.lastQuery.Search)
	assert.Equal(t, "week", *service.lastQuery.Date)
	assert.Nil(t, service.lastQuery.Status)

	w = perform(router, http.MethodGet, "/activities?page=two", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	e := decode(t, w)
	assert.Equal(t, string(dto.ErrorCodeValidationFailed), e.Error.Code)
	assert.Contains(t, string(e.Error.Details), `"path":"query"`)
}

func TestActivityController_GetActivity(t *testing.T) {
	service := &fakeActivityService{}
	router := gin.New()
	router.GET("/activities/:id", NewActivityController(service).GetActivity)

	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodGet, "/activities/42", nil).Code)
	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/activities/"+uuid.NewString(), nil).Code)

	service.err = apperrors.NewNotFoundReason(apperrors.ErrActivityNotFound)
	w := perform(router, http.MethodGet, "/activities/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "activity not found", decode(t, w).Error.Message)
}

func TestActivityController_CreateActivity(t *testing.T) {
	service := &fakeActivityService{}
	controller := NewActivityController(service)

	router := gin.New()
	router.POST("/anonymous", controller.CreateActivity)
	router.POST("/activities", withUser(uuid.New()), controller.CreateActivity)

	body := map[string]interface{}{
		"title":           "Board games night",
		"description":     "Bring your favourite game.",
		"startDate":       "2030-05-01T18:00:00Z",
		"endDate":         "2030-05-01T22:00:00Z",
		"location":        "Cafe Kadikoy",
		"maxParticipants": 12,
		"categoryId":      uuid.NewString(),
	}

	assert.Equal(t, http.StatusUnauthorized, perform(router, http.MethodPost, "/anonymous", body).Code)

	w := perform(router, http.MethodPost, "/activities", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Board games night", service.lastReq.Title)
	assert.Equal(t, 12, service.lastReq.MaxParticipants)

	w = perform(router, http.MethodPost, "/activities", map[string]interface{}{"maxParticipants": "many"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParticipationController(t *testing.T) {
	userID := uuid.New()
	service := &fakeParticipationService{}
	controller := NewParticipationController(service)

	router := gin.New()
	router.POST("/activities/:id/join", withUser(userID), controller.JoinActivity)
	router.DELETE("/activities/:id/join", withUser(userID), controller.LeaveActivity)

	path := "/activities/" + uuid.NewString() + "/join"
	w := perform(router, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, service.userID)

	service.err = apperrors.NewConflictReason(apperrors.ErrActivityFull)
	w = perform(router, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "activity full", decode(t, w).Error.Message)

	service.err = apperrors.NewNotFoundReason(apperrors.ErrNotParticipating)
	w = perform(router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not participating", decode(t, w).Error.Message)

	service.err = apperrors.NewStorageError("join activity", errors.New("connection reset"))
	w = perform(router, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestCommentController(t *testing.T) {
	service := &fakeCommentService{}
	controller := NewCommentController(service)

	router := gin.New()
	router.GET("/activities/:id/comments", controller.ListComments)
	router.POST("/activities/:id/comments", withUser(uuid.New()), controller.CreateComment)
	router.PATCH("/activities/:id/comments/:commentId", withUser(uuid.New()), controller.UpdateComment)
	router.DELETE("/activities/:id/comments/:commentId", withUser(uuid.New()), controller.DeleteComment)

	base := "/activities/" + uuid.NewString() + "/comments"
	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, base, nil).Code)
	assert.Equal(t, http.StatusCreated, perform(router, http.MethodPost, base, map[string]string{"content": "hi"}).Code)
	assert.Equal(t, http.StatusOK, perform(router, http.MethodPatch, base+"/"+uuid.NewString(), map[string]string{"content": "edit"}).Code)
	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodDelete, base+"/nope", nil).Code)

	service.err = apperrors.NewForbiddenError("Only the author can modify this comment")
	w := perform(router, http.MethodDelete, base+"/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthController_OAuthSignIn(t *testing.T) {
	service := &fakeAuthService{}
	router := gin.New()
	router.POST("/auth/oauth/sign-in", NewAuthController(service, zerolog.Nop()).OAuthSignIn)

	body := map[string]string{"provider": "google", "providerAccountId": "1", "email": "a@example.com"}
	w := perform(router, http.MethodPost, "/auth/oauth/sign-in", body)
	require.Equal(t, http.StatusOK, w.Code)

	var auth dto.AuthResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &auth))
	assert.Equal(t, "token", auth.AccessToken)

	service.err = apperrors.NewCustomError(apperrors.ErrNoEmail, "no email").WithCode(string(dto.ErrorCodeNoEmail))
	w = perform(router, http.MethodPost, "/auth/oauth/sign-in", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, string(dto.ErrorCodeNoEmail), decode(t, w).Error.Code)
}

func TestHealthController(t *testing.T) {
	router := gin.New()
	router.GET("/up", NewHealthController(fakePinger{}).Health)
	router.GET("/down", NewHealthController(fakePinger{err: errors.New("refused")}).Health)

	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/up", nil).Code)

	w := perform(router, http.MethodGet, "/down", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, decode(t, w).Success)
}

type fakeCategoryService struct {
	rootsOnly bool
	err       error
}

func (f *fakeCategoryService) ListCategories(_ context.Context, rootsOnly bool) ([]dto.CategoryResponse, error) {
	f.rootsOnly = rootsOnly
	return []dto.CategoryResponse{}, f.err
}

func (f *fakeCategoryService) GetCategory(_ context.Context, id uuid.UUID) (*dto.CategoryDetailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.CategoryDetailResponse{CategoryResponse: dto.CategoryResponse{ID: id}}, nil
}

func (f *fakeCategoryService) CreateCategory(_ context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.CategoryResponse{ID: uuid.New(), Name: req.Name}, nil
}

func TestCategoryController(t *testing.T) {
	service := &fakeCategoryService{}
	controller := NewCategoryController(service)
	router := gin.New()
	router.GET("/categories", controller.ListCategories)
	router.GET("/categories/:id", controller.GetCategory)
	router.POST("/categories", controller.CreateCategory)

	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/categories?root=true", nil).Code)
	assert.True(t, service.rootsOnly)
	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/categories", nil).Code)
	assert.False(t, service.rootsOnly)

	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodGet, "/categories/abc", nil).Code)
	assert.Equal(t, http.StatusCreated, perform(router, http.MethodPost, "/categories", gin.H{"name": "Chess"}).Code)

	service.err = apperrors.NewConflictError("Category name already exists")
	w := perform(router, http.MethodPost, "/categories", gin.H{"name": "Chess"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(dto.ErrorCodeConflict), decode(t, w).Error.Code)
}

type fakeUserService struct {
	lastReq *dto.UpdateProfileRequest
}

func (f *fakeUserService) GetProfile(context.Context, uuid.UUID) (*dto.ProfileResponse, error) {
	return &dto.ProfileResponse{}, nil
}

func (f *fakeUserService) UpdateProfile(_ context.Context, _ uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	f.lastReq = req
	return &dto.ProfileResponse{}, nil
}

func TestUserController(t *testing.T) {
	service := &fakeUserService{}
	controller := NewUserController(service)

	router := gin.New()
	router.GET("/anonymous", controller.GetProfile)
	authed := router.Group("", withUser(uuid.New()))
	authed.GET("/users/me", controller.GetProfile)
	authed.PUT("/users/me", controller.UpdateProfile)

	assert.Equal(t, http.StatusUnauthorized, perform(router, http.MethodGet, "/anonymous", nil).Code)
	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/users/me", nil).Code)

	w := perform(router, http.MethodPut, "/users/me", gin.H{"bio": "Climber", "interests": []string{"climbing"}})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, service.lastReq)
	assert.Equal(t, "Climber", *service.lastReq.Bio)
	assert.Equal(t, []string{"climbing"}, service.lastReq.Interests)

	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodPut, "/users/me", gin.H{"interests": "climbing"}).Code)
}
