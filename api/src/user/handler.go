package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/model"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/logger"
	reasoncodes "github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/reason_codes"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/utilities"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

type CreateUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// UserResponse renders the id as a decimal string; 64-bit values do not
// survive JSON number parsing in most clients.
type UserResponse struct {
	Id        string `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

func NewUserResponse(u *model.User) UserResponse {
	id, _ := u.Identity()
	return UserResponse{
		Id:        strconv.FormatInt(id, 10),
		Username:  u.Username,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
	}
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, reasoncodes.ErrInvalidRequest, "Invalid request")
		return
	}

	u, err := h.Service.Register(c.Request.Context(), RegisterUserRequest{
		Username:  req.Username,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewUserResponse(u))
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, reasoncodes.ErrInvalidRequest, "Invalid user id")
		return
	}

	u, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(u))
}

// FindUsers looks a user up by username, or lists users by lastname.
func (h *Handler) FindUsers(c *gin.Context) {
	ctx := c.Request.Context()

	if username, ok := c.GetQuery("username"); ok && username != "" {
		u, err := h.Service.GetByUsername(ctx, username)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, NewUserResponse(u))
		return
	}

	lastname, ok := c.GetQuery("lastname")
	if !ok {
		abortWithError(c, http.StatusBadRequest, reasoncodes.ErrInvalidRequest, "username or lastname is required")
		return
	}
	users, err := h.Service.ListByLastname(ctx, lastname)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utilities.Map(users, func(u model.User) UserResponse {
		return NewUserResponse(&u)
	}))
}

func (h *Handler) RemoveByLastname(c *gin.Context) {
	removed, err := h.Service.RemoveByLastname(c.Request.Context(), c.Param("lastname"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, reasoncodes.ErrNotFound, "User not found")
	case errors.Is(err, ErrDuplicateUsername):
		abortWithError(c, http.StatusConflict, reasoncodes.ErrDuplicateUsername, "Username already taken")
	case errors.Is(err, ErrDuplicateIdentity):
		abortWithError(c, http.StatusConflict, reasoncodes.ErrDuplicateIdentity, "Could not allocate a user identity")
	default:
		logger.DefaultOr(logger.New).Error(err, "User storage failure")
		abortWithError(c, http.StatusInternalServerError, reasoncodes.ErrStorage, "Storage failure")
	}
}

func abortWithError(c *gin.Context, status int, code reasoncodes.ReasonCode, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "reason": code})
}
