package handler

import (
	"errors"
	"net/http"

	"cube_market/internal/domain/corporate/service"
	userModel "cube_market/internal/domain/user/model"
	userRepo "cube_market/internal/domain/user/repository"
	"cube_market/pkg/response"
	"cube_market/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CorporateHandler 企业/世界/社区处理器
type CorporateHandler struct {
	service service.CorporateService
	users   userRepo.UserRepository
}

func NewCorporateHandler(svc service.CorporateService, users userRepo.UserRepository) *CorporateHandler {
	return &CorporateHandler{service: svc, users: users}
}

// CorporateInput 企业输入
type CorporateInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	LogoURL string `json:"logoUrl"`
}

// WorldInput 世界输入
type WorldInput struct {
	CorporateID string `json:"corporateId" binding:"required,uuid"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// CommunityInput 社区输入
type CommunityInput struct {
	WorldID     string `json:"worldId" binding:"required,uuid"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// actorCorporateID 企业角色返回自己的企业ID，管理员返回空串（不受限）
func (h *CorporateHandler) actorCorporateID(c *gin.Context) (string, error) {
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

func (h *CorporateHandler) CreateCorporate(c *gin.Context) {
	var input CorporateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	corp, err := h.service.CreateCorporate(input.Name, input.Email, input.Phone, input.Address, input.LogoURL)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, corp)
}

func (h *CorporateHandler) ListCorporates(c *gin.Context) {
	var q utils.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	filters := map[string]interface{}{}
	if v := c.Query("status"); v != "" {
		filters["status"] = v
	}

	list, total, err := h.service.ListCorporates(&q, filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: list, Total: total, Page: q.Page, Limit: q.Limit})
}

func (h *CorporateHandler) GetCorporate(c *gin.Context) {
	corp, err := h.service.GetCorporate(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCorporateNotFound, "Corporate not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, corp)
}

func (h *CorporateHandler) UpdateCorporate(c *gin.Context) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	corp, err := h.service.UpdateCorporate(c.Param("id"), fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCorporateNotFound, "Corporate not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, corp)
}

func (h *CorporateHandler) DeleteCorporate(c *gin.Context) {
	if err := h.service.DeleteCorporate(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCorporateNotFound, "Corporate not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "Corporate deleted")
}

func (h *CorporateHandler) CreateWorld(c *gin.Context) {
	var input WorldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	// 企业角色只能在自己的企业下建世界
	actorCorp, err := h.actorCorporateID(c)
	if err != nil {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		return
	}
	if actorCorp != "" && actorCorp != input.CorporateID {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Cannot create world for another corporate")
		return
	}

	w, err := h.service.CreateWorld(input.CorporateID, input.Name, input.Description, input.ImageURL)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCorporateNotFound, "Corporate not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, w)
}

func (h *CorporateHandler) ListWorlds(c *gin.Context) {
	var q utils.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	filters := map[string]interface{}{}
	if v := c.Query("corporate_id"); v != "" {
		filters["corporate_id"] = v
	}

	list, total, err := h.service.ListWorlds(&q, filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: list, Total: total, Page: q.Page, Limit: q.Limit})
}

func (h *CorporateHandler) GetWorld(c *gin.Context) {
	w, err := h.service.GetWorld(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrWorldNotFound, "World not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, w)
}

func (h *CorporateHandler) UpdateWorld(c *gin.Context) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	actorCorp, err := h.actorCorporateID(c)
	if err != nil {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		return
	}

	w, err := h.service.UpdateWorld(c.Param("id"), actorCorp, fields)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrWorldNotFound, "World not found")
		case errors.Is(err, service.ErrNotOwner):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "World belongs to another corporate")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, w)
}

func (h *CorporateHandler) DeleteWorld(c *gin.Context) {
	actorCorp, err := h.actorCorporateID(c)
	if err != nil {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		return
	}

	if err := h.service.DeleteWorld(c.Param("id"), actorCorp); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrWorldNotFound, "World not found")
		case errors.Is(err, service.ErrNotOwner):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "World belongs to another corporate")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, "World deleted")
}

func (h *CorporateHandler) JoinWorld(c *gin.Context) {
	if err := h.service.JoinWorld(c.Param("id"), c.GetString("userID")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrWorldNotFound, "World not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "Joined world")
}

func (h *CorporateHandler) LeaveWorld(c *gin.Context) {
	if err := h.service.LeaveWorld(c.Param("id"), c.GetString("userID")); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "Left world")
}

func (h *CorporateHandler) CreateCommunity(c *gin.Context) {
	var input CommunityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	com, err := h.service.CreateCommunity(input.WorldID, input.Name, input.Description)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrWorldNotFound, "World not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, com)
}

func (h *CorporateHandler) ListCommunities(c *gin.Context) {
	var q utils.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	filters := map[string]interface{}{}
	if v := c.Query("world_id"); v != "" {
		filters["world_id"] = v
	}

	list, total, err := h.service.ListCommunities(&q, filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: list, Total: total, Page: q.Page, Limit: q.Limit})
}

func (h *CorporateHandler) UpdateCommunity(c *gin.Context) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	com, err := h.service.UpdateCommunity(c.Param("id"), fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCommunityNotFound, "Community not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, com)
}

func (h *CorporateHandler) DeleteCommunity(c *gin.Context) {
	if err := h.service.DeleteCommunity(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCommunityNotFound, "Community not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "Community deleted")
}
