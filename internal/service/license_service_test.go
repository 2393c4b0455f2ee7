package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hugohenrick/pdv-varejo/internal/domain/license"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLicenseService(t *testing.T) (*LicenseService, *fakeLicenseRepo, *fakeActivationRepo) {
	t.Helper()
	licenses := newFakeLicenseRepo()
	activations := &fakeActivationRepo{}
	svc := NewLicenseService(licenses, activations, passTxManager{}, nopLogger{})
	return svc, licenses, activations
}

func issueLicense(t *testing.T, svc *LicenseService, maxActivations int, opts ...func(*CreateLicenseInput)) *license.License {
	t.Helper()
	input := CreateLicenseInput{
		Type:           license.TypeLifetime,
		ClientName:     "Mercado Central",
		ClientEmail:    "a@b.com",
		MaxUsers:       10,
		MaxBranches:    3,
		MaxActivations: maxActivations,
	}
	for _, opt := range opts {
		opt(&input)
	}
	l, err := svc.CreateLicense(context.Background(), input)
	require.NoError(t, err)
	return l
}

func TestCreateLicenseGeneratesValidKey(t *testing.T) {
	svc, _, _ := newLicenseService(t)

	l := issueLicense(t, svc, 1)

	assert.True(t, license.ValidKeyFormat(l.Key))
	assert.Equal(t, license.StatusActive, l.Status)
	assert.Nil(t, l.ExpiresAt)
}

func TestCreateLicenseMonthlyDefaultsExpiry(t *testing.T) {
	svc, _, _ := newLicenseService(t)

	l := issueLicense(t, svc, 1, func(in *CreateLicenseInput) {
		in.Type = license.TypeMonthly
	})

	require.NotNil(t, l.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *l.ExpiresAt, time.Minute)
}

func TestActivateSucceeds(t *testing.T) {
	svc, _, activations := newLicenseService(t)
	l := issueLicense(t, svc, 2)

	a, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key,
		Email:      "a@b.com",
		Domain:     "loja.example.com",
		HardwareID: "H1",
	})
	require.NoError(t, err)

	assert.True(t, a.IsActive)
	assert.True(t, license.ValidActivationKeyFormat(a.ActivationKey))
	assert.Equal(t, 1, l.ActivationCount)
	assert.NotNil(t, l.LastActivatedAt)

	count, err := activations.CountActive(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestActivateEmailMismatch(t *testing.T) {
	svc, _, _ := newLicenseService(t)
	l := issueLicense(t, svc, 1)

	_, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key,
		Email:      "outro@b.com",
		HardwareID: "H1",
	})
	assert.ErrorIs(t, err, license.ErrEmailMismatch)
}

func TestActivateEmailCaseInsensitive(t *testing.T) {
	svc, _, _ := newLicenseService(t)
	l := issueLicense(t, svc, 1)

	_, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key,
		Email:      "A@B.COM",
		HardwareID: "H1",
	})
	assert.NoError(t, err)
}

func TestActivateExpiredLicenseFlipsStatus(t *testing.T) {
	svc, licenses, _ := newLicenseService(t)
	l := issueLicense(t, svc, 1, func(in *CreateLicenseInput) {
		in.Type = license.TypeMonthly
		in.ExpiresAt = newTestTime(-time.Hour)
	})

	_, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key,
		Email:      "a@b.com",
		HardwareID: "H1",
	})
	assert.ErrorIs(t, err, license.ErrExpired)

	stored, err := licenses.FindByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, license.StatusExpired, stored.Status)
}

func TestActivateExpiredFlipSurvivesRollback(t *testing.T) {
	licenses := newFakeLicenseRepo()
	activations := &fakeActivationRepo{}
	tx := rollbackTxManager{licenses: licenses, activations: activations}
	svc := NewLicenseService(licenses, activations, tx, nopLogger{})

	l := issueLicense(t, svc, 1, func(in *CreateLicenseInput) {
		in.Type = license.TypeMonthly
		in.ExpiresAt = newTestTime(-time.Hour)
	})

	_, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key,
		Email:      "a@b.com",
		HardwareID: "H1",
	})
	assert.ErrorIs(t, err, license.ErrExpired)

	// A transação rejeitada foi desfeita, mas o novo status persiste
	stored, err := licenses.FindByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, license.StatusExpired, stored.Status)

	count, err := activations.CountActive(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestActivateSuspendedLicenseRejected(t *testing.T) {
	svc, _, _ := newLicenseService(t)
	l := issueLicense(t, svc, 1)

	_, err := svc.ChangeStatus(context.Background(), l.ID, license.StatusSuspended)
	require.NoError(t, err)

	_, err = svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key,
		Email:      "a@b.com",
		HardwareID: "H1",
	})
	assert.ErrorIs(t, err, license.ErrNotActive)
}

func TestActivateDomainNotAllowed(t *testing.T) {
	svc, _, _ := newLicenseService(t)
	l := issueLicense(t, svc, 1, func(in *CreateLicenseInput) {
		in.AllowedDomains = []string{"loja.example.com"}
	})

	_, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key,
		Email:      "a@b.com",
		Domain:     "pirata.example.com",
		HardwareID: "H1",
	})
	assert.ErrorIs(t, err, license.ErrDomainNotAllowed)
}

func TestActivateHardwareNotAllowedStrictMode(t *testing.T) {
	svc, _, _ := newLicenseService(t)
	l := issueLicense(t, svc, 1, func(in *CreateLicenseInput) {
		in.HardwareBinding = &license.HardwareBinding{StrictMode: true, MaxHardwareBindings: 1}
	})

	_, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key,
		Email:      "a@b.com",
		HardwareID: "H1",
	})
	assert.ErrorIs(t, err, license.ErrHardwareNotAllowed)
}

func TestActivateSameHardwareSupersedes(t *testing.T) {
	svc, _, activations := newLicenseService(t)
	l := issueLicense(t, svc, 2)

	first, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key, Email: "a@b.com", HardwareID: "H1",
	})
	require.NoError(t, err)

	second, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key, Email: "a@b.com", HardwareID: "H1",
	})
	require.NoError(t, err)

	stored, err := activations.FindByKey(context.Background(), first.ActivationKey)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, license.ReasonSuperseded, stored.DeactivationReason)

	active, err := activations.FindActiveByHardware(context.Background(), l.ID, "H1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)
}

func TestActivateSingleSeatDisplacesOldHardware(t *testing.T) {
	svc, _, activations := newLicenseService(t)
	l := issueLicense(t, svc, 1)

	first, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key, Email: "a@b.com", HardwareID: "H1",
	})
	require.NoError(t, err)

	_, err = svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key, Email: "a@b.com", HardwareID: "H2",
	})
	require.NoError(t, err)

	stored, err := activations.FindByKey(context.Background(), first.ActivationKey)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, license.ReasonSuperseded, stored.DeactivationReason)

	count, err := activations.CountActive(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// O contador bruto registra cada ativação, mesmo as substituídas
	assert.Equal(t, 2, l.ActivationCount)
}

func TestActivateMultiSeatAtCapRejected(t *testing.T) {
	svc, _, activations := newLicenseService(t)
	l := issueLicense(t, svc, 2)

	for _, hw := range []string{"H1", "H2"} {
		_, err := svc.Activate(context.Background(), ActivateInput{
			LicenseKey: l.Key, Email: "a@b.com", HardwareID: hw,
		})
		require.NoError(t, err)
	}

	_, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key, Email: "a@b.com", HardwareID: "H3",
	})
	assert.ErrorIs(t, err, license.ErrActivationLimit)

	count, err := activations.CountActive(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestActivateAtCapReportsLimitNotDomain(t *testing.T) {
	svc, _, _ := newLicenseService(t)
	l := issueLicense(t, svc, 2, func(in *CreateLicenseInput) {
		in.AllowedDomains = []string{"loja.example.com"}
	})

	for _, hw := range []string{"H1", "H2"} {
		_, err := svc.Activate(context.Background(), ActivateInput{
			LicenseKey: l.Key, Email: "a@b.com", Domain: "loja.example.com", HardwareID: hw,
		})
		require.NoError(t, err)
	}

	// Licença lotada responde com o limite, mesmo com o domínio barrado
	_, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key, Email: "a@b.com", Domain: "pirata.example.com", HardwareID: "H3",
	})
	assert.ErrorIs(t, err, license.ErrActivationLimit)
}

func TestVerifySuccess(t *testing.T) {
	svc, _, _ := newLicenseService(t)
	l := issueLicense(t, svc, 1)

	a, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key, Email: "a@b.com", Domain: "loja.example.com", HardwareID: "H1",
	})
	require.NoError(t, err)

	verified, activation, err := svc.Verify(context.Background(), l.Key, a.ActivationKey, &SystemInfo{
		HardwareID: "H1",
		Domain:     "loja.example.com",
	})
	require.NoError(t, err)

	assert.NotNil(t, verified.LastVerifiedAt)
	assert.NotNil(t, activation.LastVerifiedAt)
}

func TestVerifyMismatchFailsClosed(t *testing.T) {
	svc, _, activations := newLicenseService(t)
	l := issueLicense(t, svc, 1)

	a, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key, Email: "a@b.com", HardwareID: "H1",
	})
	require.NoError(t, err)

	_, _, err = svc.Verify(context.Background(), l.Key, a.ActivationKey, &SystemInfo{HardwareID: "H9"})
	assert.ErrorIs(t, err, license.ErrSystemMismatch)

	stored, err := activations.FindByKey(context.Background(), a.ActivationKey)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, license.ReasonSecurityReset, stored.DeactivationReason)

	// Verificação subsequente com a mesma chave falha como inativa
	_, _, err = svc.Verify(context.Background(), l.Key, a.ActivationKey, nil)
	assert.ErrorIs(t, err, license.ErrActivationInactive)
}

func TestVerifyWrongLicenseKey(t *testing.T) {
	svc, _, _ := newLicenseService(t)
	l := issueLicense(t, svc, 1)
	other := issueLicense(t, svc, 1, func(in *CreateLicenseInput) {
		in.ClientEmail = "c@d.com"
	})

	a, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key, Email: "a@b.com", HardwareID: "H1",
	})
	require.NoError(t, err)

	_, _, err = svc.Verify(context.Background(), other.Key, a.ActivationKey, nil)
	assert.ErrorIs(t, err, license.ErrActivationInactive)
}

func TestVerifyUnknownActivationKey(t *testing.T) {
	svc, _, _ := newLicenseService(t)
	l := issueLicense(t, svc, 1)

	_, _, err := svc.Verify(context.Background(), l.Key, "CHAVE-INEXISTENTE", nil)
	assert.ErrorIs(t, err, license.ErrActivationInactive)
}

func TestVerifyRepositoryFailureSurfaces(t *testing.T) {
	licenses := newFakeLicenseRepo()
	boom := errors.New("conexão com o banco perdida")
	activations := &failingActivationRepo{findErr: boom}
	svc := NewLicenseService(licenses, activations, passTxManager{}, nopLogger{})

	// Falha de infraestrutura não é tratada como ativação inativa
	_, _, err := svc.Verify(context.Background(), "AAAA-BBBB-CCCC-DDDD", "QUALQUER", nil)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, license.ErrActivationInactive)
}

func TestDeactivateActivation(t *testing.T) {
	svc, _, activations := newLicenseService(t)
	l := issueLicense(t, svc, 1)

	a, err := svc.Activate(context.Background(), ActivateInput{
		LicenseKey: l.Key, Email: "a@b.com", HardwareID: "H1",
	})
	require.NoError(t, err)

	err = svc.DeactivateActivation(context.Background(), a.ActivationKey, "")
	require.NoError(t, err)

	stored, err := activations.FindByKey(context.Background(), a.ActivationKey)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, license.ReasonManualShutdown, stored.DeactivationReason)

	err = svc.DeactivateActivation(context.Background(), a.ActivationKey, "")
	assert.ErrorIs(t, err, license.ErrActivationInactive)
}

func TestChangeStatusTransitions(t *testing.T) {
	svc, _, _ := newLicenseService(t)
	l := issueLicense(t, svc, 1)

	updated, err := svc.ChangeStatus(context.Background(), l.ID, license.StatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, license.StatusSuspended, updated.Status)

	updated, err = svc.ChangeStatus(context.Background(), l.ID, license.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, license.StatusActive, updated.Status)

	_, err = svc.ChangeStatus(context.Background(), l.ID, license.StatusCancelled)
	require.NoError(t, err)

	// Licença cancelada não volta a ativo
	_, err = svc.ChangeStatus(context.Background(), l.ID, license.StatusActive)
	assert.ErrorIs(t, err, license.ErrInvalidTransition)
}

func TestUpdateHardwareBinding(t *testing.T) {
	svc, _, _ := newLicenseService(t)
	l := issueLicense(t, svc, 1, func(in *CreateLicenseInput) {
		in.HardwareBinding = &license.HardwareBinding{MaxHardwareBindings: 2}
	})

	for _, hw := range []string{"H1", "H2"} {
		_, err := svc.UpdateHardwareBinding(context.Background(), UpdateHardwareBindingInput{
			LicenseID:  l.ID,
			Action:     BindingActionAdd,
			HardwareID: hw,
		})
		require.NoError(t, err)
	}

	// Lista cheia rejeita novos vínculos
	_, err := svc.UpdateHardwareBinding(context.Background(), UpdateHardwareBindingInput{
		LicenseID:  l.ID,
		Action:     BindingActionAdd,
		HardwareID: "H3",
	})
	assert.ErrorIs(t, err, license.ErrMaxBindings)

	updated, err := svc.UpdateHardwareBinding(context.Background(), UpdateHardwareBindingInput{
		LicenseID:  l.ID,
		Action:     BindingActionRemove,
		HardwareID: "H1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"H2"}, updated.HardwareBinding.HardwareIDs)

	max := 5
	strict := true
	updated, err = svc.UpdateHardwareBinding(context.Background(), UpdateHardwareBindingInput{
		LicenseID:   l.ID,
		Action:      BindingActionUpdateSettings,
		MaxBindings: &max,
		StrictMode:  &strict,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.HardwareBinding.MaxHardwareBindings)
	assert.True(t, updated.HardwareBinding.StrictMode)

	_, err = svc.UpdateHardwareBinding(context.Background(), UpdateHardwareBindingInput{
		LicenseID: l.ID,
		Action:    BindingAction("explodir"),
	})
	assert.ErrorIs(t, err, ErrInvalidBindingAction)
}
