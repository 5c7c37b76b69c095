package mocks

//go:generate mockgen -destination=mock_client.go -package=mocks linkdash/internal/client API
