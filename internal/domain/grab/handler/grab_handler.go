package handler

import (
	"errors"
	"net/http"

	"cube_market/internal/domain/grab/service"
	userModel "cube_market/internal/domain/user/model"
	userRepo "cube_market/internal/domain/user/repository"
	"cube_market/pkg/response"
	"cube_market/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GrabHandler 抢购处理器
type GrabHandler struct {
	service service.GrabService
	users   userRepo.UserRepository
}

func NewGrabHandler(svc service.GrabService, users userRepo.UserRepository) *GrabHandler {
	return &GrabHandler{service: svc, users: users}
}

// ClaimInput 领取输入
type ClaimInput struct {
	AdID string `json:"adId" binding:"required,uuid"`
}

func (h *GrabHandler) actorCorporateID(c *gin.Context) (string, error) {
	if c.GetInt("role") == userModel.RoleAdmin {
		return "", nil
	}
	u, err := h.users.GetByID(c.GetString("userID"))
	if err != nil {
		return "", err
	}
	if u.CorporateID == nil {
		return "", errors.New("user has no corporate")
	}
	return *u.CorporateID, nil
}

// Claim 业务规则拒绝（配额已满、重复领取）走 Fail，不是传输层错误
func (h *GrabHandler) Claim(c *gin.Context) {
	var input ClaimInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	grab, err := h.service.Claim(input.AdID, c.GetString("userID"))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrAdNotFound, "Ad not found")
		case errors.Is(err, service.ErrAdNotActive):
			response.Fail(c, response.ErrAdInactive, "Ad is not active")
		case errors.Is(err, service.ErrDuplicateGrab):
			response.Fail(c, response.ErrGrabDuplicate, "You already have an unvalidated grab for this ad")
		case errors.Is(err, service.ErrQuotaExceeded):
			response.Fail(c, response.ErrGrabQuotaExceeded, "Grab quota exceeded")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, grab)
}

func (h *GrabHandler) ListMine(c *gin.Context) {
	var q utils.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	grabs, total, err := h.service.ListMine(c.GetString("userID"), &q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: grabs, Total: total, Page: q.Page, Limit: q.Limit})
}

func (h *GrabHandler) List(c *gin.Context) {
	var q utils.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	filters := map[string]interface{}{}
	for _, col := range []string{"ad_id", "user_id"} {
		if v := c.Query(col); v != "" {
			filters[col] = v
		}
	}

	grabs, total, err := h.service.List(&q, filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: grabs, Total: total, Page: q.Page, Limit: q.Limit})
}

func (h *GrabHandler) Get(c *gin.Context) {
	actorCorp, err := h.actorCorporateID(c)
	if err != nil {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		return
	}

	grab, err := h.service.GetOwned(c.Param("id"), actorCorp)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrGrabNotFound, "Grab not found")
		case errors.Is(err, service.ErrNotOwner):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Grab belongs to another corporate")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, grab)
}

func (h *GrabHandler) Validate(c *gin.Context) {
	actorCorp, err := h.actorCorporateID(c)
	if err != nil {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		return
	}

	grab, err := h.service.Validate(c.Param("id"), actorCorp)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrGrabNotFound, "Grab not found")
		case errors.Is(err, service.ErrAlreadyValidated):
			response.Fail(c, response.ErrGrabDuplicate, "Grab already validated")
		case errors.Is(err, service.ErrNotOwner):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Grab belongs to another corporate")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, grab)
}
