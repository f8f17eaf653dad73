package handler

import (
	"context"
	"net"
	"testing"

	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rl1809/stock-tally/internal/adapter/storage"
	"github.com/rl1809/stock-tally/internal/core/service"
)

func newTestClient(t *testing.T) (*InventoryClient, *storage.MemoryAdapter) {
	t.Helper()

	prefs := storage.NewMemoryAdapter()
	log := zaptest.NewLogger(t)
	svc := service.NewInventoryService(prefs, log)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterInventoryServiceServer(srv, NewGRPCHandler(svc, log))
	go srv.Serve(lis)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		srv.Stop()
	})

	return NewInventoryClient(conn), prefs
}

func TestGRPCAddProduct_Accumulates(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	resp, err := client.AddProduct(ctx, &AddProductRequest{Product: "apples", Quantity: "5"})
	if err != nil {
		t.Fatalf("rpc failed: %v", err)
	}
	if !resp.Success || resp.Total != 5 || resp.Display != "apples: 5" {
		t.Errorf("unexpected response: %+v", resp)
	}

	resp, err = client.AddProduct(ctx, &AddProductRequest{Product: "apples", Quantity: "3"})
	if err != nil {
		t.Fatalf("rpc failed: %v", err)
	}
	if resp.Total != 8 || resp.Items["apples"] != 8 {
		t.Errorf("expected total 8, got %+v", resp)
	}
	if resp.Message != "Product added: apples" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestGRPCAddProduct_Validation(t *testing.T) {
	client, prefs := newTestClient(t)

	resp, err := client.AddProduct(context.Background(), &AddProductRequest{Product: "", Quantity: "5"})
	if err != nil {
		t.Fatalf("rpc failed: %v", err)
	}
	if resp.Success || resp.Message != "Please enter a name and a quantity" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(prefs.Snapshot()) != 0 {
		t.Errorf("expected store untouched, got %v", prefs.Snapshot())
	}
}

func TestGRPCGetInventory(t *testing.T) {
	client, prefs := newTestClient(t)
	ctx := context.Background()
	prefs.PutString(ctx, service.InventoryKey, `{"apples":5,"bolts":120}`)

	resp, err := client.GetInventory(ctx, &GetInventoryRequest{})
	if err != nil {
		t.Fatalf("rpc failed: %v", err)
	}
	if !resp.Success || len(resp.Items) != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Display != "apples: 5\nbolts: 120" {
		t.Errorf("unexpected display: %q", resp.Display)
	}

	prefs.PutString(ctx, service.InventoryKey, "{")
	resp, err = client.GetInventory(ctx, &GetInventoryRequest{})
	if err != nil {
		t.Fatalf("rpc failed: %v", err)
	}
	if resp.Success || resp.Message != "internal error" {
		t.Errorf("expected internal error, got %+v", resp)
	}
}
