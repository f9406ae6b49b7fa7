package models

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchant-portal/internal/database"
)

func TestMerchantDockIDUniqueness(t *testing.T) {
	_, err := database.Connect(filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&Merchant{}))

	// Manual onboarding never sets an acquirer id; any number of such
	// merchants must coexist.
	first := Merchant{LegalName: "Loja Um", Document: "11111111000111", Status: MerchantPending}
	second := Merchant{LegalName: "Loja Dois", Document: "22222222000122", Status: MerchantPending}
	require.NoError(t, database.DB.Create(&first).Error)
	require.NoError(t, database.DB.Create(&second).Error)
	assert.Nil(t, first.DockID)

	dockID := "MER-1"
	synced := Merchant{DockID: &dockID, LegalName: "Loja Três", Document: "33333333000133", Status: MerchantPending}
	require.NoError(t, database.DB.Create(&synced).Error)

	dupID := "MER-1"
	dup := Merchant{DockID: &dupID, LegalName: "Loja Quatro", Document: "44444444000144", Status: MerchantPending}
	assert.Error(t, database.DB.Create(&dup).Error)
}
