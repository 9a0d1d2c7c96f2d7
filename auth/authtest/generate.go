// Package authtest provides test doubles for package auth.
package authtest

//go:generate mockgen -destination=mock_provider.go -package=authtest github.com/xy-planning-network/artmatch/auth Provider
