package handler

import (
	"errors"
	"net/http"
	"time"

	"cube_market/internal/domain/cube/service"
	userModel "cube_market/internal/domain/user/model"
	userRepo "cube_market/internal/domain/user/repository"
	viewModel "cube_market/internal/domain/view/model"
	viewService "cube_market/internal/domain/view/service"
	"cube_market/pkg/response"
	"cube_market/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CubeHandler 魔方处理器
type CubeHandler struct {
	service service.CubeService
	views   viewService.ViewService
	users   userRepo.UserRepository
}

func NewCubeHandler(svc service.CubeService, views viewService.ViewService, users userRepo.UserRepository) *CubeHandler {
	return &CubeHandler{service: svc, views: views, users: users}
}

// CreateCubeInput 创建魔方输入
type CreateCubeInput struct {
	Code                string     `json:"code" binding:"required"`
	Type                string     `json:"type" binding:"omitempty,oneof=physical virtual"`
	Address             string     `json:"address"`
	Lat                 float64    `json:"lat"`
	Lng                 float64    `json:"lng"`
	ImageURL            string     `json:"imageUrl"`
	ImageKey            string     `json:"imageKey"`
	OwnerUserID         *string    `json:"ownerUserId"`
	CorporateID         *string    `json:"corporateId"`
	WorldID             *string    `json:"worldId"`
	ExpiredActivateDate *time.Time `json:"expiredActivateDate"`
	InactiveAt          *time.Time `json:"inactiveAt"`
	Tags                []string   `json:"tags"`
}

// UpdateTagsInput 标签输入
type UpdateTagsInput struct {
	Tags []string `json:"tags" binding:"required"`
}

// actorCorporateID 企业角色返回自己的企业ID，管理员返回空串
func (h *CubeHandler) actorCorporateID(c *gin.Context) (string, error) {
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

func (h *CubeHandler) Create(c *gin.Context) {
	var input CreateCubeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	// 企业角色强制归属自己的企业
	if c.GetInt("role") == userModel.RoleCorporate {
		actorCorp, err := h.actorCorporateID(c)
		if err != nil {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
			return
		}
		input.CorporateID = &actorCorp
	}

	cube, err := h.service.Create(&service.CreateCubeInput{
		Code:                input.Code,
		Type:                input.Type,
		Address:             input.Address,
		Lat:                 input.Lat,
		Lng:                 input.Lng,
		ImageURL:            input.ImageURL,
		ImageKey:            input.ImageKey,
		OwnerUserID:         input.OwnerUserID,
		CorporateID:         input.CorporateID,
		WorldID:             input.WorldID,
		ExpiredActivateDate: input.ExpiredActivateDate,
		InactiveAt:          input.InactiveAt,
		Tags:                input.Tags,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, cube)
}

// Get 魔方详情，附带浏览打点（打点失败不影响本请求）
func (h *CubeHandler) Get(c *gin.Context) {
	cube, err := h.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCubeNotFound, "Cube not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	identity := viewService.ResolveIdentity(
		c.GetString("userID"),
		c.GetHeader("X-Session-ID"),
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	h.views.TrackAsync(viewModel.SubjectCube, cube.ID, identity)

	response.Success(c, cube)
}

func (h *CubeHandler) List(c *gin.Context) {
	var q utils.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	filters := map[string]interface{}{}
	for _, col := range []string{"status", "type", "world_id", "corporate_id", "owner_user_id"} {
		if v := c.Query(col); v != "" {
			filters[col] = v
		}
	}

	cubes, total, err := h.service.List(&q, filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: cubes, Total: total, Page: q.Page, Limit: q.Limit})
}

func (h *CubeHandler) Update(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	actorCorp, err := h.actorCorporateID(c)
	if err != nil {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		return
	}

	cube, err := h.service.Update(c.Param("id"), actorCorp, fields)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrCubeNotFound, "Cube not found")
		case errors.Is(err, service.ErrNotOwner):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Cube belongs to another corporate")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, cube)
}

func (h *CubeHandler) UpdateTags(c *gin.Context) {
	var input UpdateTagsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	actorCorp, err := h.actorCorporateID(c)
	if err != nil {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		return
	}

	if err := h.service.UpdateTags(c.Param("id"), actorCorp, input.Tags); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrCubeNotFound, "Cube not found")
		case errors.Is(err, service.ErrNotOwner):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Cube belongs to another corporate")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, "Tags updated")
}

func (h *CubeHandler) Delete(c *gin.Context) {
	actorCorp, err := h.actorCorporateID(c)
	if err != nil {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		return
	}

	if err := h.service.Delete(c.Param("id"), actorCorp); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrCubeNotFound, "Cube not found")
		case errors.Is(err, service.ErrNotOwner):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Cube belongs to another corporate")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, "Cube deleted")
}
