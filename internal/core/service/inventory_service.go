package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rl1809/stock-tally/internal/core/domain"
	"github.com/rl1809/stock-tally/internal/port"
)

var (
	ErrMissingFields    = errors.New("missing product name or quantity")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrCorruptInventory = errors.New("corrupt inventory")
)

// Notice returns the user-facing message for a recoverable submission error,
// or "" if err must be treated as fatal.
func Notice(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return domain.NoticeMissingFields
	case errors.Is(err, ErrInvalidQuantity):
		return domain.NoticeInvalidQuantity
	default:
		return ""
	}
}

type InventoryService struct {
	store  *InventoryStore
	logger *zap.Logger
	tracer trace.Tracer

	// serializes the read-modify-write in Submit
	mu sync.Mutex
}

func NewInventoryService(prefs port.Preferences, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		store:  NewInventoryStore(prefs),
		logger: logger,
		tracer: otel.Tracer("github.com/rl1809/stock-tally/internal/core/service"),
	}
}

// Submit applies one form submission: validate, load, add, save, render.
func (s *InventoryService) Submit(ctx context.Context, sub domain.Submission) (domain.Result, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Submit")
	defer span.End()

	product := strings.TrimSpace(sub.Product)
	quantityStr := strings.TrimSpace(sub.Quantity)
	span.SetAttributes(attribute.String("inventory.product", product))

	if product == "" || quantityStr == "" {
		return domain.Result{}, ErrMissingFields
	}

	quantity, err := strconv.Atoi(quantityStr)
	if err != nil {
		return domain.Result{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, quantityStr)
	}
	if quantity < 0 {
		return domain.Result{}, fmt.Errorf("%w: %d is negative", ErrInvalidQuantity, quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inv, err := s.store.Load(ctx)
	if err != nil {
		s.fail(span, "load inventory failed", err)
		return domain.Result{}, err
	}

	total, err := inv.Add(product, quantity)
	if err != nil {
		if errors.Is(err, domain.ErrQuantityOverflow) {
			return domain.Result{}, fmt.Errorf("%w: %v", ErrInvalidQuantity, err)
		}
		return domain.Result{}, err
	}

	if err := s.store.Save(ctx, inv); err != nil {
		s.fail(span, "save inventory failed", err)
		return domain.Result{}, err
	}

	s.logger.Info("product added",
		zap.String("product", product),
		zap.Int("added", quantity),
		zap.Int("total", total),
	)

	return domain.Result{
		Product:   product,
		Added:     quantity,
		Total:     total,
		Inventory: inv,
		Display:   inv.Render(),
		Notice:    domain.NoticeAdded(product),
	}, nil
}

// Snapshot returns the persisted inventory.
func (s *InventoryService) Snapshot(ctx context.Context) (domain.Inventory, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Snapshot")
	defer span.End()

	inv, err := s.store.Load(ctx)
	if err != nil {
		s.fail(span, "load inventory failed", err)
		return nil, err
	}
	return inv, nil
}

// Render returns the display text of the persisted inventory.
func (s *InventoryService) Render(ctx context.Context) (string, error) {
	inv, err := s.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return inv.Render(), nil
}

func (s *InventoryService) fail(span trace.Span, msg string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.logger.Error(msg, zap.Error(err))
}
