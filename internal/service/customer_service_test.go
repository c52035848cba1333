package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ertugrul2020/pos/internal/dto"
)

func TestCreateCustomer_DefaultDebtLimit(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := NewCustomerService(repo)

	resp, err := svc.Create(context.Background(), dto.CreateCustomerRequest{Name: "خالد", Phone: "01001"})
	require.NoError(t, err)

	require.NotNil(t, resp.DebtLimit)
	assert.Equal(t, "1000", resp.DebtLimit.String())
	assert.True(t, resp.TotalDebt.IsZero())
}

func TestCreateCustomer_ZeroMeansUnlimited(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := NewCustomerService(repo)

	zero := decimal.Zero
	resp, err := svc.Create(context.Background(), dto.CreateCustomerRequest{
		Name:      "هدى",
		Phone:     "01002",
		DebtLimit: &zero,
	})
	require.NoError(t, err)
	assert.Nil(t, resp.DebtLimit)
}

func TestUpdateCustomer_ZeroLiftsLimit(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := NewCustomerService(repo)

	created, err := svc.Create(context.Background(), dto.CreateCustomerRequest{Name: "ياسر", Phone: "01003"})
	require.NoError(t, err)
	require.NotNil(t, created.DebtLimit)

	zero := decimal.Zero
	id := mustParseUUID(t, created.ID)
	updated, err := svc.Update(context.Background(), id, dto.UpdateCustomerRequest{DebtLimit: &zero})
	require.NoError(t, err)
	assert.Nil(t, updated.DebtLimit)
}

func TestListCustomers_CaseSensitiveSearch(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := NewCustomerService(repo)

	_, err := svc.Create(context.Background(), dto.CreateCustomerRequest{Name: "Ahmed", Phone: "0101234"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), dto.CreateCustomerRequest{Name: "ahmed", Phone: "0109999"})
	require.NoError(t, err)

	out, err := svc.List(context.Background(), dto.CustomerFilter{Search: "Ah"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Ahmed", out[0].Name)

	// Phone substring also matches
	out, err = svc.List(context.Background(), dto.CustomerFilter{Search: "9999"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "ahmed", out[0].Name)
}

func TestDeleteCustomer_RequiresConfirmation(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := NewCustomerService(repo)

	created, err := svc.Create(context.Background(), dto.CreateCustomerRequest{Name: "نور", Phone: "01004"})
	require.NoError(t, err)
	id := mustParseUUID(t, created.ID)

	err = svc.Delete(context.Background(), id, false)
	assert.ErrorIs(t, err, ErrDeleteNotConfirmed)
	assert.Contains(t, repo.customers, id)

	require.NoError(t, svc.Delete(context.Background(), id, true))
	assert.NotContains(t, repo.customers, id)
}
