package universities

import (
	"context"
	"testing"

	"unithrift-backend/internal/models"
	"unithrift-backend/internal/pkg/apperrors"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUniversitiesTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.University{}))
	return &Service{DB: db}
}

func TestCreateAndList_SortedByName(t *testing.T) {
	svc := setupUniversitiesTest(t)
	_, err := svc.Create(context.Background(), "Midland State")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "Ashford College")
	require.NoError(t, err)

	out, err := svc.List(context.Background(), "", 1, 10)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Ashford College", out[0].Name)
	assert.Equal(t, "Midland State", out[1].Name)
}

func TestList_NameSearch(t *testing.T) {
	svc := setupUniversitiesTest(t)
	_, err := svc.Create(context.Background(), "Midland State")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "Ashford College")
	require.NoError(t, err)

	out, err := svc.List(context.Background(), "Mid", 1, 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Midland State", out[0].Name)
}

func TestCreate_EmptyNameRefused(t *testing.T) {
	svc := setupUniversitiesTest(t)
	_, err := svc.Create(context.Background(), "")
	require.Error(t, err)
	e := apperrors.As(err)
	require.NotNil(t, e)
	assert.Equal(t, "VALIDATION", e.Code)
}
