package config

// QuotaConfig controls the quota ledger policy.
//
// LowWaterMark is the minimum balance a credential must hold before a new
// billable operation is admitted. RefundOnProviderFailure picks one of the two
// billing policies: false charges for attempted work (the default), true
// refunds the debit when the provider call fails.
type QuotaConfig struct {
	LowWaterMark            int
	RefundOnProviderFailure bool
}

func NewQuotaConfig() *QuotaConfig {
	return &QuotaConfig{
		LowWaterMark:            getEnvInt("QUOTA_LOW_WATER_MARK", 500),
		RefundOnProviderFailure: getEnvBool("QUOTA_REFUND_ON_PROVIDER_FAILURE", false),
	}
}
