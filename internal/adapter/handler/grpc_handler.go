package handler

import (
	"context"

	"go.uber.org/zap"

	"github.com/rl1809/stock-tally/internal/core/domain"
	"github.com/rl1809/stock-tally/internal/core/service"
)

type GRPCHandler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

var _ InventoryServiceServer = (*GRPCHandler)(nil)

func NewGRPCHandler(inventoryService *service.InventoryService, logger *zap.Logger) *GRPCHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandler{inventoryService: inventoryService, logger: logger}
}

func (h *GRPCHandler) AddProduct(ctx context.Context, req *AddProductRequest) (*AddProductResponse, error) {
	res, err := h.inventoryService.Submit(ctx, domain.Submission{
		Product:  req.Product,
		Quantity: req.Quantity,
	})
	if err != nil {
		if notice := service.Notice(err); notice != "" {
			return &AddProductResponse{
				Success: false,
				Message: notice,
			}, nil
		}
		h.logger.Error("grpc add product failed", zap.Error(err))
		return &AddProductResponse{
			Success: false,
			Message: "internal error",
		}, nil
	}

	return &AddProductResponse{
		Success: true,
		Message: res.Notice,
		Total:   int64(res.Total),
		Items:   res.Inventory,
		Display: res.Display,
	}, nil
}

func (h *GRPCHandler) GetInventory(ctx context.Context, req *GetInventoryRequest) (*GetInventoryResponse, error) {
	inv, err := h.inventoryService.Snapshot(ctx)
	if err != nil {
		h.logger.Error("grpc get inventory failed", zap.Error(err))
		return &GetInventoryResponse{
			Success: false,
			Message: "internal error",
		}, nil
	}

	return &GetInventoryResponse{
		Success: true,
		Items:   inv,
		Display: inv.Render(),
	}, nil
}
