package dto

type RegisterRequestDTO struct {
	Login        string `json:"login" example:"miner42"`
	Password     string `json:"password" example:"s3cret-pass"`
	ReferralCode string `json:"referralCode,omitempty" example:"9F3A1C0B"`
}

type RegisterResponseDTO struct {
	Message       string `json:"message"`
	UserID        string `json:"userId" example:"7d0f4a52-6e1b-4c55-9b1e-0c1f2a3b4c5d"`
	AffiliateCode string `json:"affiliateCode" example:"4B7E21D9"`
}

type LoginRequestDTO struct {
	Login    string `json:"login" example:"miner42"`
	Password string `json:"password" example:"s3cret-pass"`
}

type LoginResponseDTO struct {
	Message string `json:"message"`
}
