// Package mocks provides mock implementations for testing the contacts API.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository interfaces defined in internal/core. The generated files are
// committed so tests build without a codegen step.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockCache := mocks.NewMockCacheRepository(ctrl)
//	mockCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/vmelnyk/contacts-api/internal/core UserRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=contact_repository_mock.go github.com/vmelnyk/contacts-api/internal/core ContactRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/vmelnyk/contacts-api/internal/core CacheRepository
