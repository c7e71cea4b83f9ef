package phishing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeHighRisk(t *testing.T) {
	assessment, err := Analyze("https://secur3-bank-login.tk/verify")
	require.NoError(t, err)

	// Suspicious TLD, keyword, hyphen and digit signals combine above 70.
	assert.True(t, assessment.Features.HasSuspiciousTLD)
	assert.True(t, assessment.Features.HasSuspiciousKeyword)
	assert.True(t, assessment.Features.HasHyphenInDomain)
	assert.Greater(t, assessment.Features.DigitRatioInDomain, 0.0)
	assert.GreaterOrEqual(t, assessment.Probability, HighRiskThreshold)
	assert.Equal(t, RiskHigh, assessment.RiskLevel)
}

func TestAnalyzeLowRisk(t *testing.T) {
	assessment, err := Analyze("https://github.com")
	require.NoError(t, err)

	assert.Equal(t, 0.0, assessment.Probability)
	assert.Equal(t, RiskLow, assessment.RiskLevel)
	assert.True(t, assessment.Features.UsesHTTPS)
}

func TestAnalyzeMediumRisk(t *testing.T) {
	// Keyword (25) plus missing https (15) lands exactly on the medium floor.
	assessment, err := Analyze("http://login.example.com")
	require.NoError(t, err)

	assert.Equal(t, MediumRiskThreshold, assessment.Probability)
	assert.Equal(t, RiskMedium, assessment.RiskLevel)
}

func TestAnalyzeDeterministic(t *testing.T) {
	first, err := Analyze("https://secur3-bank-login.tk/verify")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Analyze("https://secur3-bank-login.tk/verify")
		require.NoError(t, err)
		assert.Equal(t, first.Probability, again.Probability)
		assert.Equal(t, first.RiskLevel, again.RiskLevel)
		assert.Equal(t, first.Features, again.Features)
	}
}

func TestAnalyzeFeatureSignals(t *testing.T) {
	testCases := []struct {
		name  string
		url   string
		check func(t *testing.T, a Assessment)
	}{
		{
			"ip address host",
			"http://192.168.10.1/login",
			func(t *testing.T, a Assessment) {
				assert.True(t, a.Features.HasIPAddress)
				assert.False(t, a.Features.HasSuspiciousTLD)
			},
		},
		{
			"at symbol",
			"https://good.com@evil.com/pay",
			func(t *testing.T, a Assessment) {
				assert.True(t, a.Features.HasAtSymbol)
			},
		},
		{
			"deep subdomains",
			"https://a.b.c.example.com",
			func(t *testing.T, a Assessment) {
				assert.Equal(t, 3, a.Features.SubdomainCount)
			},
		},
		{
			"no https",
			"http://example.com",
			func(t *testing.T, a Assessment) {
				assert.False(t, a.Features.UsesHTTPS)
				assert.Equal(t, 15.0, a.Probability)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assessment, err := Analyze(tc.url)
			require.NoError(t, err)
			tc.check(t, assessment)
		})
	}
}

func TestAnalyzeProbabilityClamped(t *testing.T) {
	// Every signal at once still caps at 100.
	raw := "http://good.com@1.2.3.4-verify-login-secure-update-account.tk." +
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa.evil-bank1.tk/wallet?crypto=1"
	assessment, err := Analyze(raw)
	require.NoError(t, err)

	assert.LessOrEqual(t, assessment.Probability, 100.0)
	assert.Equal(t, RiskHigh, assessment.RiskLevel)
}

func TestAnalyzeWalletAddressScoresLow(t *testing.T) {
	assessment, err := Analyze("0xabc1234567890123456789012345678901234567")
	require.NoError(t, err)

	// Addresses carry none of the URL signals, so they stay well under
	// the medium threshold.
	assert.Equal(t, RiskLow, assessment.RiskLevel)
	assert.Less(t, assessment.Probability, MediumRiskThreshold)
}

func TestAnalyzeInvalidInput(t *testing.T) {
	_, err := Analyze("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBucketThresholds(t *testing.T) {
	testCases := []struct {
		probability float64
		level       RiskLevel
	}{
		{0, RiskLow},
		{39.9, RiskLow},
		{40, RiskMedium},
		{69.9, RiskMedium},
		{70, RiskHigh},
		{100, RiskHigh},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.level, Bucket(tc.probability), "probability %v", tc.probability)
	}
}
