package actions

const (
	// CreateMarketComputeUnits covers two asset registrations plus the
	// market write.
	CreateMarketComputeUnits uint64 = 100

	// BuyComputeUnits is the cost of a BuyYes or BuyNo action.
	BuyComputeUnits uint64 = 50

	// ResolveComputeUnits is the cost of a Resolve action.
	ResolveComputeUnits uint64 = 25

	// ClaimComputeUnits is the cost of a Claim action.
	ClaimComputeUnits uint64 = 75
)
