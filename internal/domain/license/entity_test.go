package license

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeyFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		key := GenerateKey()
		assert.True(t, ValidKeyFormat(key), "chave gerada fora do formato: %s", key)
	}
}

func TestValidKeyFormat(t *testing.T) {
	assert.True(t, ValidKeyFormat("ABCD-1234-WXYZ-0099"))
	assert.False(t, ValidKeyFormat("abcd-1234-wxyz-0099"))
	assert.False(t, ValidKeyFormat("ABCD-1234-WXYZ"))
	assert.False(t, ValidKeyFormat("ABCD1234WXYZ0099"))
	assert.False(t, ValidKeyFormat("ABCD-1234-WXYZ-00999"))
	assert.False(t, ValidKeyFormat(""))
}

func TestGenerateActivationKeyFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		key := GenerateActivationKey()
		assert.True(t, ValidActivationKeyFormat(key), "chave de ativação fora do formato: %s", key)
	}
}

func TestNewLicenseValidation(t *testing.T) {
	_, err := NewLicense(TypeLifetime, "", "cliente@loja.com", 5, 1, 1, nil, nil, nil, "")
	assert.ErrorIs(t, err, ErrEmptyClientName)

	_, err = NewLicense(TypeLifetime, "Mercado Central", "", 5, 1, 1, nil, nil, nil, "")
	assert.ErrorIs(t, err, ErrEmptyClientEmail)

	_, err = NewLicense(Type("trial"), "Mercado Central", "cliente@loja.com", 5, 1, 1, nil, nil, nil, "")
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestNewLicenseDefaults(t *testing.T) {
	l, err := NewLicense(TypeLifetime, "Mercado Central", "cliente@loja.com", 5, 1, 0, nil, nil, nil, "")
	require.NoError(t, err)

	assert.Equal(t, StatusActive, l.Status)
	assert.Equal(t, 1, l.MaxActivations)
	assert.Nil(t, l.ExpiresAt)
	assert.True(t, ValidKeyFormat(l.Key))
}

func TestNewLicenseDefaultExpiry(t *testing.T) {
	monthly, err := NewLicense(TypeMonthly, "Mercado Central", "cliente@loja.com", 5, 1, 1, nil, nil, nil, "")
	require.NoError(t, err)
	require.NotNil(t, monthly.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *monthly.ExpiresAt, time.Minute)

	yearly, err := NewLicense(TypeYearly, "Mercado Central", "cliente@loja.com", 5, 1, 1, nil, nil, nil, "")
	require.NoError(t, err)
	require.NotNil(t, yearly.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 365), *yearly.ExpiresAt, time.Minute)
}

func TestIsExpired(t *testing.T) {
	l, err := NewLicense(TypeLifetime, "Mercado Central", "cliente@loja.com", 5, 1, 1, nil, nil, nil, "")
	require.NoError(t, err)
	assert.False(t, l.IsExpired(time.Now()))

	past := time.Now().Add(-time.Hour)
	l.ExpiresAt = &past
	assert.True(t, l.IsExpired(time.Now()))
	assert.False(t, l.IsExpired(past.Add(-time.Minute)))
}

func TestEmailMatchesIgnoresCase(t *testing.T) {
	l, err := NewLicense(TypeLifetime, "Mercado Central", "Cliente@Loja.com", 5, 1, 1, nil, nil, nil, "")
	require.NoError(t, err)

	assert.True(t, l.EmailMatches("cliente@loja.com"))
	assert.True(t, l.EmailMatches("CLIENTE@LOJA.COM"))
	assert.False(t, l.EmailMatches("outro@loja.com"))
}

func TestDomainAllowed(t *testing.T) {
	l, err := NewLicense(TypeLifetime, "Mercado Central", "cliente@loja.com", 5, 1, 1, nil, nil, nil, "")
	require.NoError(t, err)

	// Lista vazia permite qualquer domínio
	assert.True(t, l.DomainAllowed("qualquer.com.br"))

	l.AllowedDomains = []string{"loja.com.br", "Filial.loja.com.br"}
	assert.True(t, l.DomainAllowed("loja.com.br"))
	assert.True(t, l.DomainAllowed("filial.LOJA.com.br"))
	assert.False(t, l.DomainAllowed("concorrente.com.br"))
}

func TestHardwareAllowed(t *testing.T) {
	l, err := NewLicense(TypeLifetime, "Mercado Central", "cliente@loja.com", 5, 1, 1, nil, nil, nil, "")
	require.NoError(t, err)

	// Sem política qualquer hardware é aceito
	assert.True(t, l.HardwareAllowed("hw-1"))

	l.HardwareBinding = &HardwareBinding{MaxHardwareBindings: 2}
	assert.True(t, l.HardwareAllowed("hw-1"))

	// Modo estrito com lista vazia rejeita tudo
	l.HardwareBinding.StrictMode = true
	assert.False(t, l.HardwareAllowed("hw-1"))

	l.HardwareBinding.HardwareIDs = []string{"hw-1"}
	assert.True(t, l.HardwareAllowed("hw-1"))
	assert.False(t, l.HardwareAllowed("hw-2"))
}

func TestAddBindingRespectsLimit(t *testing.T) {
	l, err := NewLicense(TypeLifetime, "Mercado Central", "cliente@loja.com", 5, 1, 1, nil, nil, nil, "")
	require.NoError(t, err)

	require.NoError(t, l.AddBinding("loja.com.br", "hw-1"))
	require.NotNil(t, l.HardwareBinding)
	assert.Equal(t, []string{"hw-1"}, l.HardwareBinding.HardwareIDs)
	assert.Equal(t, []string{"loja.com.br"}, l.HardwareBinding.Domains)

	// Vínculo repetido não conta para o limite
	require.NoError(t, l.AddBinding("", "hw-1"))
	assert.Len(t, l.HardwareBinding.HardwareIDs, 1)

	err = l.AddBinding("", "hw-2")
	assert.ErrorIs(t, err, ErrMaxBindings)

	l.UpdateBindingSettings(intPtr(3), nil)
	require.NoError(t, l.AddBinding("", "hw-2"))
	assert.Len(t, l.HardwareBinding.HardwareIDs, 2)
}

func TestRemoveBinding(t *testing.T) {
	l, err := NewLicense(TypeLifetime, "Mercado Central", "cliente@loja.com", 5, 1, 1, nil, nil, nil, "")
	require.NoError(t, err)

	l.UpdateBindingSettings(intPtr(3), nil)
	require.NoError(t, l.AddBinding("loja.com.br", "hw-1"))
	require.NoError(t, l.AddBinding("", "hw-2"))

	l.RemoveBinding("loja.com.br", "hw-1")
	assert.Equal(t, []string{"hw-2"}, l.HardwareBinding.HardwareIDs)
	assert.Empty(t, l.HardwareBinding.Domains)

	// Remover de licença sem política não tem efeito
	l.HardwareBinding = nil
	l.RemoveBinding("loja.com.br", "hw-2")
	assert.Nil(t, l.HardwareBinding)
}

func TestReactivateOnlyFromSuspended(t *testing.T) {
	l, err := NewLicense(TypeLifetime, "Mercado Central", "cliente@loja.com", 5, 1, 1, nil, nil, nil, "")
	require.NoError(t, err)

	l.Suspend()
	assert.Equal(t, StatusSuspended, l.Status)
	require.NoError(t, l.Reactivate())
	assert.Equal(t, StatusActive, l.Status)

	l.Cancel()
	assert.ErrorIs(t, l.Reactivate(), ErrInvalidTransition)
	assert.Equal(t, StatusCancelled, l.Status)

	l.Status = StatusExpired
	assert.ErrorIs(t, l.Reactivate(), ErrInvalidTransition)
}

func TestRegisterActivationIncrementsRawCounter(t *testing.T) {
	l, err := NewLicense(TypeLifetime, "Mercado Central", "cliente@loja.com", 5, 1, 1, nil, nil, nil, "")
	require.NoError(t, err)

	l.RegisterActivation()
	l.RegisterActivation()

	assert.Equal(t, 2, l.ActivationCount)
	assert.NotNil(t, l.LastActivatedAt)
}

func TestActivationLifecycle(t *testing.T) {
	a := NewActivation("lic-1", "loja.com.br", "hw-1")

	assert.True(t, a.IsActive)
	assert.True(t, ValidActivationKeyFormat(a.ActivationKey))
	assert.Nil(t, a.DeactivatedAt)

	a.Deactivate(ReasonManualShutdown)
	assert.False(t, a.IsActive)
	require.NotNil(t, a.DeactivatedAt)
	assert.Equal(t, ReasonManualShutdown, a.DeactivationReason)
}

func TestActivationMatchesSystem(t *testing.T) {
	a := NewActivation("lic-1", "loja.com.br", "hw-1")

	assert.True(t, a.MatchesSystem("hw-1", "loja.com.br"))
	assert.True(t, a.MatchesSystem("", ""))
	assert.True(t, a.MatchesSystem("hw-1", ""))
	assert.False(t, a.MatchesSystem("hw-2", "loja.com.br"))
	assert.False(t, a.MatchesSystem("hw-1", "outra.com.br"))
}

func intPtr(v int) *int {
	return &v
}
