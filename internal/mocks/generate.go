// Package mocks provides mock implementations for testing the matchify
// client core.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the core ports. The generated files are committed so the module builds
// without running codegen; regenerate after interface changes with:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	mockAuth := mocks.NewMockAuthAPI(ctrl)
//	mockAuth.EXPECT().Login(gomock.Any(), "a@b.c", "pw").Return("token", user, nil)
package mocks

// Generate mocks for the AuthAPI, TalentAPI and PreferenceStore interfaces
// from the internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=core_mock.go github.com/matchify/matchify-core/internal/core AuthAPI,TalentAPI,PreferenceStore
