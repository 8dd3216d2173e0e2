package handler

import (
	"errors"
	"net/http"
	"time"

	adModel "cube_market/internal/domain/ad/model"
	"cube_market/internal/domain/ad/service"
	userModel "cube_market/internal/domain/user/model"
	userRepo "cube_market/internal/domain/user/repository"
	viewModel "cube_market/internal/domain/view/model"
	viewService "cube_market/internal/domain/view/service"
	"cube_market/internal/pkg/qr"
	"cube_market/internal/pkg/uploader"
	"cube_market/pkg/response"
	"cube_market/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdHandler 广告处理器
type AdHandler struct {
	service  service.AdService
	views    viewService.ViewService
	users    userRepo.UserRepository
	qrGen    *qr.Generator
	uploader uploader.Uploader
}

func NewAdHandler(svc service.AdService, views viewService.ViewService, users userRepo.UserRepository, qrGen *qr.Generator, up uploader.Uploader) *AdHandler {
	return &AdHandler{service: svc, views: views, users: users, qrGen: qrGen, uploader: up}
}

// CreateAdInput 创建广告输入
type CreateAdInput struct {
	CubeID      string     `json:"cubeId" binding:"required,uuid"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Type        string     `json:"type" binding:"omitempty,oneof=promo voucher"`
	ImageURL    string     `json:"imageUrl"`
	MaxGrab     int        `json:"maxGrab" binding:"required,min=1"`
	IsDailyGrab bool       `json:"isDailyGrab"`
	StartAt     *time.Time `json:"startAt"`
	FinishAt    *time.Time `json:"finishAt"`
}

func (h *AdHandler) actorCorporateID(c *gin.Context) (string, error) {
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

func (h *AdHandler) Create(c *gin.Context) {
	var input CreateAdInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	actorCorp, err := h.actorCorporateID(c)
	if err != nil {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		return
	}

	ad, err := h.service.Create(&service.CreateAdInput{
		CubeID:      input.CubeID,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		ImageURL:    input.ImageURL,
		MaxGrab:     input.MaxGrab,
		IsDailyGrab: input.IsDailyGrab,
		StartAt:     input.StartAt,
		FinishAt:    input.FinishAt,
	}, actorCorp)
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
	response.Success(c, ad)
}

// Get 广告详情，附带浏览打点
func (h *AdHandler) Get(c *gin.Context) {
	ad, err := h.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrAdNotFound, "Ad not found")
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
	h.views.TrackAsync(viewModel.SubjectAd, ad.ID, identity)

	response.Success(c, ad)
}

func (h *AdHandler) List(c *gin.Context) {
	var q utils.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	filters := map[string]interface{}{}
	for _, col := range []string{"status", "type", "cube_id"} {
		if v := c.Query(col); v != "" {
			filters[col] = v
		}
	}

	ads, total, err := h.service.List(&q, filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: ads, Total: total, Page: q.Page, Limit: q.Limit})
}

func (h *AdHandler) Update(c *gin.Context) {
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

	ad, err := h.service.Update(c.Param("id"), actorCorp, fields)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrAdNotFound, "Ad not found")
		case errors.Is(err, service.ErrNotOwner):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Ad belongs to another corporate")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, ad)
}

func (h *AdHandler) Delete(c *gin.Context) {
	actorCorp, err := h.actorCorporateID(c)
	if err != nil {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		return
	}

	if err := h.service.Delete(c.Param("id"), actorCorp); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrAdNotFound, "Ad not found")
		case errors.Is(err, service.ErrNotOwner):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Ad belongs to another corporate")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, "Ad deleted")
}

// GenerateQR 生成广告深链二维码：券走 voucher 页，促销走社区促销详情页
// PNG 存到公开存储 qr_codes/admin_{adminId}_{timestamp}.png
func (h *AdHandler) GenerateQR(c *gin.Context) {
	ad, err := h.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrAdNotFound, "Ad not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	target := qr.TargetPromo
	if ad.Type == adModel.AdVoucher {
		target = qr.TargetVoucher
	}
	link := h.qrGen.BuildDeepLink(target, map[string]string{"id": ad.ID})

	png, err := h.qrGen.EncodePNG(link)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	objectKey := qr.ObjectKey(c.GetString("userID"))
	url, err := h.uploader.UploadBytes(objectKey, png)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{"url": url, "link": link})
}
