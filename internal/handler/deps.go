package handler

import (
	"groupchat/internal/app/chat"
	"groupchat/internal/app/message"
	"groupchat/internal/app/storage"
	"groupchat/internal/app/store"
	"groupchat/internal/configs"
)

// AppDeps carries the collaborators every handler closes over.
type AppDeps struct {
	Config   *configs.AppConfig
	Registry *chat.Registry
	Ingress  *message.Service
	Users    store.UserStore
	Files    storage.ContentStore
}
