package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evo/internal/config"
	"evo/internal/model"
	"evo/internal/reminder"
)

func TestResetCounters(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	defaults := config.DefaultServiceDefaults()

	t.Run("newest matching cost wins", func(t *testing.T) {
		v := &model.Vehicle{
			ServiceCounters: newCounters(defaults),
			Costs: []model.Cost{
				{Category: model.CategoryService, Subcategory: model.SubcategorySmallService, Date: d1, Mileage: i64(10000)},
				{Category: model.CategoryService, Subcategory: model.SubcategorySmallService, Date: d2, Mileage: i64(25000)},
				{Category: model.CategoryService, Subcategory: model.SubcategoryBrakes, Date: d1},
			},
		}
		resetCounters(v, defaults)

		assert.Equal(t, int64(25000), *v.ServiceCounters.Small.LastKm)
		assert.True(t, v.ServiceCounters.Small.LastDate.Equal(d2))
		assert.Nil(t, v.ServiceCounters.Brakes.LastKm)
		assert.True(t, v.ServiceCounters.Brakes.LastDate.Equal(d1))
		assert.Nil(t, v.ServiceCounters.Big.LastDate)
	})

	t.Run("newest cost without mileage clears lastKm", func(t *testing.T) {
		v := &model.Vehicle{
			Odometer:        120000,
			ServiceCounters: newCounters(defaults),
			Costs: []model.Cost{
				{Category: model.CategoryService, Subcategory: model.SubcategorySmallService, Date: d1, Mileage: i64(10000)},
				{Category: model.CategoryService, Subcategory: model.SubcategorySmallService, Date: d2},
			},
		}
		v.ServiceCounters.Small.LastKm = i64(10000)
		resetCounters(v, defaults)

		assert.Nil(t, v.ServiceCounters.Small.LastKm)
		assert.True(t, v.ServiceCounters.Small.LastDate.Equal(d2))
		est := reminder.Compute(v.ServiceCounters.Small, v.Odometer, d2.AddDate(0, 0, 18))
		assert.Nil(t, est.KmLeft)
		assert.Equal(t, reminder.LevelOK, est.Level)
	})

	t.Run("same date prefers higher mileage", func(t *testing.T) {
		v := &model.Vehicle{
			ServiceCounters: newCounters(defaults),
			Costs: []model.Cost{
				{Category: model.CategoryService, Subcategory: model.SubcategoryBigService, Date: d2, Mileage: i64(50000)},
				{Category: model.CategoryService, Subcategory: model.SubcategoryBigService, Date: d2},
				{Category: model.CategoryService, Subcategory: model.SubcategoryBigService, Date: d2, Mileage: i64(51000)},
			},
		}
		resetCounters(v, defaults)
		assert.Equal(t, int64(51000), *v.ServiceCounters.Big.LastKm)
	})

	t.Run("no matching cost keeps counter", func(t *testing.T) {
		v := &model.Vehicle{ServiceCounters: newCounters(defaults)}
		v.ServiceCounters.Small.LastKm = i64(1234)
		v.Costs = []model.Cost{{Category: model.CategoryFailure, Subcategory: model.SubcategoryBrakes, Date: d2}}

		resetCounters(v, defaults)
		assert.Equal(t, int64(1234), *v.ServiceCounters.Small.LastKm)
		assert.Nil(t, v.ServiceCounters.Brakes.LastDate)
	})

	t.Run("missing counter is created", func(t *testing.T) {
		v := &model.Vehicle{Costs: []model.Cost{
			{Category: model.CategoryService, Subcategory: model.SubcategoryBrakes, Date: d1, Mileage: i64(40000)},
		}}
		resetCounters(v, defaults)
		require.NotNil(t, v.ServiceCounters.Brakes)
		assert.Equal(t, int64(50000), v.ServiceCounters.Brakes.IntervalKm)
		assert.Equal(t, int64(40000), *v.ServiceCounters.Brakes.LastKm)
		assert.Nil(t, v.ServiceCounters.Small)
	})
}

func TestFollowOdometer(t *testing.T) {
	v := &model.Vehicle{Odometer: 1000}

	followOdometer(v, &model.Cost{})
	assert.Equal(t, int64(1000), v.Odometer)

	followOdometer(v, &model.Cost{Mileage: i64(900)})
	assert.Equal(t, int64(1000), v.Odometer)

	followOdometer(v, &model.Cost{Mileage: i64(1500)})
	assert.Equal(t, int64(1500), v.Odometer)
}
