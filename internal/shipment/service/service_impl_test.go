package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/opsboard/internal/clock"
	"github.com/smallbiznis/opsboard/internal/shipment/domain"
	"github.com/smallbiznis/opsboard/internal/shipment/repository"
	"github.com/smallbiznis/opsboard/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) domain.Service {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Shipment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 7, 14, 8, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
}

func TestCreateRoundTripsItems(t *testing.T) {
	svc := newService(t)

	resp, err := svc.Create(context.Background(), domain.CreateRequest{
		Supplier:    "Shenzhen Trading Co",
		Forwarder:   "FastFreight",
		Origin:      "Shenzhen",
		Destination: "Riyadh",
		Method:      domain.MethodSea,
		Items: []domain.Item{
			{Name: "Neck Massager", Quantity: 200},
			{Name: "Posture Corrector", Quantity: 150},
		},
		TrackingNumber: "SF123456",
	})
	require.NoError(t, err)

	require.Equal(t, domain.StatusSourcing, resp.Status)
	require.Equal(t, time.Date(2025, 7, 14, 8, 0, 0, 0, time.UTC), resp.DateSent.UTC())
	require.Len(t, resp.Items, 2)
	require.Equal(t, "Neck Massager", resp.Items[0].Name)
	require.Equal(t, int64(150), resp.Items[1].Quantity)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Len(t, listed[0].Items, 2)
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Supplier: "  "})
	require.ErrorIs(t, err, domain.ErrInvalidSupplier)

	_, err = svc.Create(ctx, domain.CreateRequest{Supplier: "Acme", Method: "Truck"})
	require.ErrorIs(t, err, domain.ErrInvalidMethod)

	_, err = svc.Create(ctx, domain.CreateRequest{Supplier: "Acme", Status: "Lost"})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateStatus(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{
		Supplier: "Acme",
		Method:   domain.MethodAir,
	})
	require.NoError(t, err)

	resp, err := svc.UpdateStatus(ctx, created.ID, domain.StatusCustoms)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCustoms, resp.Status)

	// Any valid status may follow any other, including going backwards.
	resp, err = svc.UpdateStatus(ctx, created.ID, domain.StatusShipped)
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, resp.Status)

	_, err = svc.UpdateStatus(ctx, created.ID, "Teleported")
	require.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, "42", domain.StatusShipped)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.UpdateStatus(ctx, "abc", domain.StatusShipped)
	require.ErrorIs(t, err, domain.ErrInvalidID)
}
