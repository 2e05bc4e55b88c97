package service

import (
	"vidtube/internal/mocks"
	"vidtube/internal/security"
)

var (
	_ UserStore         = (*mocks.UserStore)(nil)
	_ UserStore         = (*mocks.MemoryUsers)(nil)
	_ VideoStore        = (*mocks.VideoStore)(nil)
	_ SubscriptionStore = (*mocks.SubscriptionStore)(nil)
	_ MediaStore        = (*mocks.MediaStore)(nil)
	_ TaskQueue         = (*mocks.TaskQueue)(nil)
)

var fastParams = security.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func fastHash(password string) ([]byte, error) {
	return security.HashPasswordWithParams(password, fastParams)
}
