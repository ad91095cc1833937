package controller

import (
	"errors"
	"fmt"
	"net/http"

	"elitecafe_v1/internal/api/dto"
	"elitecafe_v1/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReservationController 预订接口
type ReservationController struct {
	bookingSvc *service.BookingService
}

// NewReservationController 创建预订控制器
func NewReservationController(bookingSvc *service.BookingService) *ReservationController {
	return &ReservationController{
		bookingSvc: bookingSvc,
	}
}

// Create 创建预订（线上 / 线下渠道统一入口）
// @Summary 创建预订
// @Description 组合搜索桌位并配齐员工，整体一个事务
// @Tags Reservation (预订)
// @Accept json
// @Produce json
// @Success 201 {object} dto.ReservationResp "预订成功"
// @Failure 400 {object} dto.ErrorResp "参数错误 / 无桌可订"
// @Failure 409 {object} dto.ErrorResp "并发冲突，可重试"
// @Failure 500 {object} dto.ErrorResp "配员失败 / 服务器错误"
// @Router /api/reservations [post]
func (c *ReservationController) Create(ctx *gin.Context) {
	var req dto.ReservationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResp{Status: "error", Message: "Invalid input data: " + err.Error()})
		return
	}

	result, err := c.bookingSvc.Book(ctx.Request.Context(), &service.BookingRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Persons:     req.Persons,
		Date:        req.ReservationDate,
		Time:        req.ReservationTime,
		Message:     req.Message,
		BookingType: req.BookingType,
	})
	if err != nil {
		c.renderBookingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ReservationResp{
		Status:                "success",
		Message:               fmt.Sprintf("Reservation successfully created for %d guests.", result.Reservation.BookedPersons),
		ReservationID:         result.Reservation.ID,
		ReservationCode:       result.Reservation.Code,
		AssignedTables:        result.Tables,
		TotalAssignedCapacity: result.TotalCapacity,
		AssignedStaff:         result.Staff,
	})
}

// renderBookingError 把服务层错误映射为 HTTP 状态码和用户话术
func (c *ReservationController) renderBookingError(ctx *gin.Context, err error) {
	var (
		noAvail  *service.NoAvailabilityError
		tierFull *service.TierExhaustedError
		noStaff  *service.StaffUnavailableError
	)

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResp{Status: "error", Message: "Invalid input data."})

	case errors.Is(err, service.ErrPastTime):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResp{
			Status:  "error",
			Message: "Cannot book for a past time today. Please choose a future time.",
		})

	case errors.As(err, &tierFull):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResp{
			Status: "error",
			Message: fmt.Sprintf("Please choose the next slot, all online tables of capacity %d are booked for %s on %s.",
				tierFull.Capacity, tierFull.Slot.Format("03:04 PM"), tierFull.Slot.Format("2006-01-02")),
		})

	case errors.As(err, &noAvail):
		message := fmt.Sprintf("Sorry, no suitable tables are available for %d guests at %s on %s. Please try another time slot or fewer guests.",
			noAvail.Persons, noAvail.Slot.Format("03:04 PM"), noAvail.Slot.Format("2006-01-02"))
		if noAvail.BookingType == "offline" {
			message = fmt.Sprintf("Sorry, no offline tables or unbooked online tables are available for %d guests at %s on %s. Please try another time slot.",
				noAvail.Persons, noAvail.Slot.Format("03:04 PM"), noAvail.Slot.Format("2006-01-02"))
		}
		ctx.JSON(http.StatusBadRequest, dto.ErrorResp{Status: "error", Message: message})

	case errors.Is(err, service.ErrSlotConflict):
		ctx.JSON(http.StatusConflict, dto.ErrorResp{
			Status:  "error",
			Message: "The selected time slot was just taken by another booking. Please try again.",
		})

	case errors.As(err, &noStaff):
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResp{
			Status: "error",
			Message: fmt.Sprintf("Sorry, we couldn't assign enough staff for your reservation (e.g., no available %s). Please try a different time or fewer guests.",
				noStaff.Role),
		})

	default:
		zap.L().Error("预订事务失败", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResp{
			Status:  "error",
			Message: "An unexpected server error occurred during reservation. Please try again or contact support.",
		})
	}
}

// CheckOfflineAvailability 线下可用桌查询
// @Summary 线下可用桌查询
// @Description 带 45 分钟前置缓冲的线下桌可用性检查
// @Tags Reservation (预订)
// @Accept json
// @Produce json
// @Success 200 {object} dto.OfflineCheckResp
// @Failure 400 {object} dto.ErrorResp
// @Router /api/reservations/offline/check [post]
func (c *ReservationController) CheckOfflineAvailability(ctx *gin.Context) {
	var req dto.OfflineCheckReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResp{Status: "error", Message: "Invalid input data: " + err.Error()})
		return
	}

	tables, err := c.bookingSvc.OfflineAvailability(ctx.Request.Context(), req.ReservationDate, req.ReservationTime, req.Persons)
	if err != nil {
		if errors.Is(err, service.ErrPastTime) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResp{Status: "error", Message: "Reservation time cannot be in the past."})
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResp{Status: "error", Message: "Invalid input data."})
			return
		}
		zap.L().Error("线下可用性查询失败", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResp{Status: "error", Message: "Failed to check availability."})
		return
	}

	views := make([]dto.TableView, 0, len(tables))
	for _, t := range tables {
		views = append(views, dto.TableView{ID: t.ID, Name: t.Name, Capacity: t.Capacity, TableType: t.TableType})
	}

	message := "Available tables fetched successfully."
	if len(views) == 0 {
		message = "No tables available for the selected time and persons."
	}
	ctx.JSON(http.StatusOK, dto.OfflineCheckResp{Status: "success", Message: message, Tables: views})
}

// SaveOffline 线下散客占位保存
// @Summary 线下散客占位
// @Description 指定桌位直接占位，pending 状态等待确认
// @Tags Reservation (预订)
// @Accept json
// @Produce json
// @Success 200 {object} gin.H
// @Failure 400 {object} dto.ErrorResp
// @Router /api/reservations/offline [post]
func (c *ReservationController) SaveOffline(ctx *gin.Context) {
	var req dto.OfflineSaveReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResp{Status: "error", Message: "Invalid input data: " + err.Error()})
		return
	}

	resv, err := c.bookingSvc.SaveWalkIn(ctx.Request.Context(), &service.WalkInRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Persons:     req.Persons,
		Date:        req.ReservationDate,
		Time:        req.ReservationTime,
		Message:     req.Message,
		TableID:     req.SelectedTableID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResp{Status: "error", Message: "Invalid input data."})
		case errors.Is(err, service.ErrPastTime):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResp{Status: "error", Message: "Reservation time cannot be in the past."})
		case errors.Is(err, service.ErrSlotConflict):
			ctx.JSON(http.StatusConflict, dto.ErrorResp{Status: "error", Message: "The selected table was just taken. Please pick another one."})
		default:
			zap.L().Error("线下占位保存失败", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResp{Status: "error", Message: "Reservation failed. Please try again."})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":           "success",
		"message":          "Reservation confirmed and table assigned successfully.",
		"reservation_id":   resv.ID,
		"reservation_code": resv.Code,
	})
}
