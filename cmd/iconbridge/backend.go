package main

import (
	"context"
	"errors"

	"github.com/example/iconbridge/internal/icon"
	"github.com/example/iconbridge/internal/launch"
	"github.com/example/iconbridge/internal/protocol"
	"github.com/example/iconbridge/internal/service"
)

// backend answers the icon commands either in-process or through a running
// iconbridge service.
type backend interface {
	FileIcon(ctx context.Context, path string) (string, error)
	ApplicationIcon(ctx context.Context) (icon.Info, error)
	ShortcutTarget(ctx context.Context, path string) (string, bool, error)
	Open(ctx context.Context, path string) error
	Greet(ctx context.Context, name string) (string, error)
}

type localBackend struct {
	icons *icon.Service
}

func (b localBackend) FileIcon(ctx context.Context, path string) (string, error) {
	return b.icons.FileIcon(ctx, path), nil
}

func (b localBackend) ApplicationIcon(ctx context.Context) (icon.Info, error) {
	return b.icons.ApplicationIcon(ctx), nil
}

func (b localBackend) ShortcutTarget(ctx context.Context, path string) (string, bool, error) {
	target, ok := b.icons.ShortcutTarget(ctx, path)
	return target, ok, nil
}

func (localBackend) Open(_ context.Context, path string) error {
	return launch.Open(path)
}

func (localBackend) Greet(_ context.Context, name string) (string, error) {
	return service.Greet(name), nil
}

type remoteBackend struct {
	client *service.Client
}

func (b remoteBackend) FileIcon(ctx context.Context, path string) (string, error) {
	resp, err := b.client.Do(ctx, protocol.Request{Command: protocol.CommandFileIcon, Path: path})
	return resp.Icon, err
}

func (b remoteBackend) ApplicationIcon(ctx context.Context) (icon.Info, error) {
	resp, err := b.client.Do(ctx, protocol.Request{Command: protocol.CommandApplicationIcon})
	if err != nil {
		return icon.Info{}, err
	}
	if resp.Info == nil {
		return icon.Info{}, errors.New("service returned no icon info")
	}
	return *resp.Info, nil
}

func (b remoteBackend) ShortcutTarget(ctx context.Context, path string) (string, bool, error) {
	resp, err := b.client.Do(ctx, protocol.Request{Command: protocol.CommandShortcutTarget, Path: path})
	return resp.Target, resp.Found, err
}

func (b remoteBackend) Open(ctx context.Context, path string) error {
	_, err := b.client.Do(ctx, protocol.Request{Command: protocol.CommandOpenSoftware, Path: path})
	return err
}

func (b remoteBackend) Greet(ctx context.Context, name string) (string, error) {
	resp, err := b.client.Do(ctx, protocol.Request{Command: protocol.CommandGreet, Name: name})
	return resp.Message, err
}
