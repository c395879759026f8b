package handler

import (
	"linguachat/internal/app/relay"
	"linguachat/internal/app/repo"
	"linguachat/internal/configs"
)

// AppDeps bundles the shared dependencies injected into every handler.
type AppDeps struct {
	Hub    *relay.Hub
	Config *configs.AppConfig
	Repo   repo.Repository
}
