package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"evo/internal/config"
	"evo/internal/logging"
	"evo/internal/model"
	"evo/internal/reminder"
	"evo/internal/repository"
	repoMocks "evo/internal/repository/mocks"
	storeMocks "evo/internal/storage/mocks"
)

var fixedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

var (
	owner = Actor{UserID: "user-1", Role: model.RoleUser}
	other = Actor{UserID: "user-2", Role: model.RoleUser}
	admin = Actor{UserID: "admin-1", Role: model.RoleAdmin}
)

func i64(n int64) *int64 { return &n }

func intp(n int) *int { return &n }

func ownedVehicle() *model.Vehicle {
	return &model.Vehicle{
		ID:              "veh-1",
		UserID:          "user-1",
		Brand:           "Škoda",
		Model:           "Octavia",
		Odometer:        100000,
		ServiceCounters: newCounters(config.DefaultServiceDefaults()),
		Costs:           []model.Cost{},
	}
}

func newVehicleFixture() (*vehicleService, *repoMocks.MockVehicleRepository, *storeMocks.MockStorage) {
	repo := &repoMocks.MockVehicleRepository{}
	store := &storeMocks.MockStorage{}
	svc := NewVehicleService(repo, store, config.DefaultServiceDefaults(), time.UTC, logging.New(&bytes.Buffer{}, time.UTC)).(*vehicleService)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, store
}

func TestVehicleService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("own vehicles by default", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		repo.On("ListByUser", ctx, "user-1").Return([]model.Vehicle{*ownedVehicle()}, nil)

		list, err := svc.List(ctx, owner, "")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("admin lists another user", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		repo.On("ListByUser", ctx, "user-1").Return([]model.Vehicle{}, nil)

		_, err := svc.List(ctx, admin, "user-1")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("user cannot list another user", func(t *testing.T) {
		svc, _, _ := newVehicleFixture()
		_, err := svc.List(ctx, other, "user-1")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestVehicleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("applies default counters", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		repo.On("Create", ctx, mock.AnythingOfType("*model.Vehicle")).Return(nil)

		v, err := svc.Create(ctx, owner, VehicleInput{Brand: " VW ", Model: "Golf", Year: intp(2015), Registration: "zg 123-ab", Odometer: i64(50000)})
		require.NoError(t, err)
		assert.Equal(t, "user-1", v.UserID)
		assert.Equal(t, "VW", v.Brand)
		assert.Equal(t, "ZG 123-AB", v.Registration)
		assert.Equal(t, int64(50000), v.Odometer)
		require.NotNil(t, v.ServiceCounters.Small)
		assert.Equal(t, int64(15000), v.ServiceCounters.Small.IntervalKm)
		assert.Equal(t, 72, v.ServiceCounters.Big.IntervalMonths)
		assert.Equal(t, int64(50000), v.ServiceCounters.Brakes.IntervalKm)
		assert.Nil(t, v.ServiceCounters.Small.LastKm)
		assert.NotNil(t, v.Costs)
	})

	invalidCases := []struct {
		name  string
		in    VehicleInput
		field string
	}{
		{"missing brand", VehicleInput{Model: "Golf"}, "brand"},
		{"missing model", VehicleInput{Brand: "VW", Model: "  "}, "model"},
		{"negative odometer", VehicleInput{Brand: "VW", Model: "Golf", Odometer: i64(-1)}, "odometer"},
		{"year too old", VehicleInput{Brand: "VW", Model: "Golf", Year: intp(1899)}, "year"},
		{"year in the future", VehicleInput{Brand: "VW", Model: "Golf", Year: intp(2027)}, "year"},
	}
	for _, tt := range invalidCases {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newVehicleFixture()
			_, err := svc.Create(ctx, owner, tt.in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("next model year is accepted", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		repo.On("Create", ctx, mock.Anything).Return(nil)
		_, err := svc.Create(ctx, owner, VehicleInput{Brand: "VW", Model: "ID.7", Year: intp(2026)})
		assert.NoError(t, err)
	})
}

func TestVehicleService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("owner sees reminders", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		v := ownedVehicle()
		last := fixedNow.AddDate(0, -11, -20)
		v.ServiceCounters.Small.LastKm = i64(86000)
		v.ServiceCounters.Small.LastDate = &last
		repo.On("FindByID", ctx, "veh-1").Return(v, nil)

		d, err := svc.Get(ctx, owner, "veh-1")
		require.NoError(t, err)
		assert.Equal(t, "veh-1", d.ID)
		assert.Equal(t, int64(1000), *d.Reminders.Small.KmLeft)
		assert.Equal(t, reminder.LevelWarning, d.Reminders.Small.Level)
		assert.Equal(t, reminder.LevelUnknown, d.Reminders.Big.Level)
	})

	t.Run("other user gets not found", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		repo.On("FindByID", ctx, "veh-1").Return(ownedVehicle(), nil)

		_, err := svc.Get(ctx, other, "veh-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("admin sees any vehicle", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		repo.On("FindByID", ctx, "veh-1").Return(ownedVehicle(), nil)

		_, err := svc.Get(ctx, admin, "veh-1")
		assert.NoError(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		repo.On("FindByID", ctx, "nope").Return(nil, repository.ErrNotFound)

		_, err := svc.Get(ctx, owner, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestVehicleService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("edits columns", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		repo.On("Modify", ctx, "veh-1").Return(ownedVehicle(), nil)

		v, err := svc.Update(ctx, owner, "veh-1", VehicleInput{Brand: "Skoda", Model: "Superb", Odometer: i64(5)})
		require.NoError(t, err)
		assert.Equal(t, "Skoda", v.Brand)
		assert.Equal(t, "Superb", v.Model)
		assert.True(t, v.UpdatedAt.Equal(fixedNow))
		assert.Equal(t, int64(100000), v.Odometer, "odometer is not edited through update")
		assert.Equal(t, []repository.CostChange{{}}, repo.Changes)
		repo.AssertExpectations(t)
	})

	t.Run("foreign vehicle is left alone", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		v := ownedVehicle()
		repo.On("Modify", ctx, "veh-1").Return(v, nil)

		_, err := svc.Update(ctx, other, "veh-1", VehicleInput{Brand: "Fiat", Model: "Panda"})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Škoda", v.Brand)
		assert.Empty(t, repo.Changes)
	})

	t.Run("missing", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		repo.On("Modify", ctx, "nope").Return(nil, repository.ErrNotFound)

		_, err := svc.Update(ctx, admin, "nope", VehicleInput{Brand: "Fiat", Model: "Panda"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestVehicleService_UpdateOdometer(t *testing.T) {
	ctx := context.Background()

	t.Run("sets reading", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		repo.On("Modify", ctx, "veh-1").Return(ownedVehicle(), nil)

		v, err := svc.UpdateOdometer(ctx, owner, "veh-1", OdometerInput{Odometer: i64(0)})
		require.NoError(t, err)
		assert.Equal(t, int64(0), v.Odometer)
	})

	t.Run("missing value", func(t *testing.T) {
		svc, _, _ := newVehicleFixture()
		_, err := svc.UpdateOdometer(ctx, owner, "veh-1", OdometerInput{})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("negative value", func(t *testing.T) {
		svc, _, _ := newVehicleFixture()
		_, err := svc.UpdateOdometer(ctx, owner, "veh-1", OdometerInput{Odometer: i64(-10)})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestVehicleService_UpdateServiceCounter(t *testing.T) {
	ctx := context.Background()
	last := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("partial update", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		repo.On("Modify", ctx, "veh-1").Return(ownedVehicle(), nil)

		v, err := svc.UpdateServiceCounter(ctx, owner, "veh-1", "brakes", CounterInput{IntervalKm: i64(40000), LastKm: i64(90000), LastDate: &last})
		require.NoError(t, err)
		c := v.ServiceCounters.Brakes
		assert.Equal(t, int64(40000), c.IntervalKm)
		assert.Equal(t, 36, c.IntervalMonths)
		assert.Equal(t, int64(90000), *c.LastKm)
		assert.True(t, c.LastDate.Equal(last))
	})

	t.Run("creates missing counter from defaults", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		v := ownedVehicle()
		v.ServiceCounters.Big = nil
		repo.On("Modify", ctx, "veh-1").Return(v, nil)

		out, err := svc.UpdateServiceCounter(ctx, owner, "veh-1", "big", CounterInput{IntervalMonths: intp(60)})
		require.NoError(t, err)
		assert.Equal(t, int64(100000), out.ServiceCounters.Big.IntervalKm)
		assert.Equal(t, 60, out.ServiceCounters.Big.IntervalMonths)
	})

	t.Run("unknown kind", func(t *testing.T) {
		svc, _, _ := newVehicleFixture()
		_, err := svc.UpdateServiceCounter(ctx, owner, "veh-1", "oil", CounterInput{})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "kind", ve.Field)
	})

	t.Run("negative interval", func(t *testing.T) {
		svc, _, _ := newVehicleFixture()
		_, err := svc.UpdateServiceCounter(ctx, owner, "veh-1", "small", CounterInput{IntervalKm: i64(-1)})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestVehicleService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes receipts after the row", func(t *testing.T) {
		svc, repo, store := newVehicleFixture()
		repo.On("FindByID", ctx, "veh-1").Return(ownedVehicle(), nil)
		repo.On("ReceiptKeys", ctx, "veh-1").Return([]string{"receipts/veh-1/a.jpg"}, nil)
		repo.On("Delete", ctx, "veh-1").Return(nil)
		store.On("Delete", ctx, "receipts/veh-1/a.jpg").Return(nil)

		require.NoError(t, svc.Delete(ctx, owner, "veh-1"))
		store.AssertExpectations(t)
	})

	t.Run("not owner", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		repo.On("FindByID", ctx, "veh-1").Return(ownedVehicle(), nil)

		assert.ErrorIs(t, svc.Delete(ctx, other, "veh-1"), ErrNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("repository failure", func(t *testing.T) {
		svc, repo, _ := newVehicleFixture()
		repo.On("FindByID", ctx, "veh-1").Return(ownedVehicle(), nil)
		repo.On("ReceiptKeys", ctx, "veh-1").Return([]string{}, nil)
		repo.On("Delete", ctx, "veh-1").Return(errors.New("db down"))

		assert.EqualError(t, svc.Delete(ctx, owner, "veh-1"), "delete vehicle: db down")
	})
}

func TestVehicleService_Report(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newVehicleFixture()
	v := ownedVehicle()
	v.Costs = []model.Cost{
		{ID: "c1", Category: model.CategoryService, Subcategory: model.SubcategoryBrakes, Description: "Pločice i diskovi", Amount: 320, Date: fixedNow.AddDate(0, -1, 0)},
		{ID: "c2", Category: model.CategoryFuel, Amount: 70.5, Date: fixedNow.AddDate(0, -2, 0)},
	}
	repo.On("FindByID", ctx, "veh-1").Return(v, nil)

	r, err := svc.Report(ctx, owner, "veh-1")
	require.NoError(t, err)
	assert.Equal(t, "skoda-octavia-report.pdf", r.Filename)
	assert.True(t, bytes.HasPrefix(r.Content, []byte("%PDF-")))
}

func TestVehicleService_Dashboard(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newVehicleFixture()
	v := ownedVehicle()
	v.Costs = []model.Cost{{ID: "c1", Category: model.CategoryFuel, Amount: 40, Date: fixedNow.AddDate(0, 0, -1)}}
	repo.On("ListByUser", ctx, "user-1").Return([]model.Vehicle{*v}, nil)

	d, err := svc.Dashboard(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year)
	assert.Equal(t, 1, d.VehicleCount)
	require.Len(t, d.RecentCosts, 1)
	assert.Equal(t, "gorivo", d.RecentCosts[0].Title)
}
