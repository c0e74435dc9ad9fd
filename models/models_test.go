package models

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestUserMigratesAndHashesOnSqlite(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&Company{}, &User{}))

	company := Company{Name: "Happy Paws"}
	require.NoError(t, db.Create(&company).Error)

	user := User{
		Email:     "owner@example.com",
		Password:  "hunter2hunter2",
		Name:      "Morgan Diaz",
		Role:      "admin",
		CompanyID: company.ID,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&user).Error)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter2hunter2")))
}

func TestCompanyRoundTripsWorkingHours(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&Company{}))

	company := Company{
		Name:         "Happy Paws",
		WorkingHours: JSONB{"mon": "09:00-17:00"},
	}
	require.NoError(t, db.Create(&company).Error)

	var got Company
	require.NoError(t, db.First(&got, "id = ?", company.ID).Error)
	assert.Equal(t, "09:00-17:00", got.WorkingHours["mon"])

	// the column default is a plain '{}' string on sqlite
	fresh := Company{Name: "Walkies Inc"}
	require.NoError(t, db.Create(&fresh).Error)
	got = Company{}
	require.NoError(t, db.First(&got, "id = ?", fresh.ID).Error)
	assert.NotNil(t, got.WorkingHours)
	assert.Empty(t, got.WorkingHours)
}

func TestJSONBScanSources(t *testing.T) {
	var j JSONB
	require.NoError(t, j.Scan([]byte(`{"a":1}`)))
	assert.EqualValues(t, 1, j["a"])

	require.NoError(t, j.Scan(`{"b":"x"}`))
	assert.Equal(t, "x", j["b"])

	require.NoError(t, j.Scan(nil))
	assert.Empty(t, j)

	assert.Error(t, j.Scan(42))
}
