package service

import (
	"context"

	"go.uber.org/zap"

	"alumniconnect/internal/model"
	"alumniconnect/internal/repository"
)

// ConnectionService guards the connection-request operations.
type ConnectionService struct {
	repo repository.Repository
	log  *zap.Logger
}

func NewConnectionService(repo repository.Repository, log *zap.Logger) *ConnectionService {
	return &ConnectionService{repo: repo, log: log.Named("connection_service")}
}

// Request sends a connection request from fromID to toID.
func (s *ConnectionService) Request(ctx context.Context, fromID, toID string) error {
	if fromID == toID {
		return model.ErrSelfConnection
	}
	if err := s.requireUser(ctx, toID); err != nil {
		return err
	}
	return s.repo.SendConnectionRequest(ctx, fromID, toID)
}

// Accept connects accepterID with requesterID. A reciprocal request the
// accepter had sent is left pending.
func (s *ConnectionService) Accept(ctx context.Context, accepterID, requesterID string) error {
	if accepterID == requesterID {
		return model.ErrSelfConnection
	}
	if err := s.requireUser(ctx, requesterID); err != nil {
		return err
	}
	return s.repo.AcceptConnectionRequest(ctx, accepterID, requesterID)
}

func (s *ConnectionService) Reject(ctx context.Context, currentID, requesterID string) error {
	if currentID == requesterID {
		return model.ErrSelfConnection
	}
	return s.repo.RejectConnectionRequest(ctx, currentID, requesterID)
}

func (s *ConnectionService) requireUser(ctx context.Context, id string) error {
	_, found, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return model.ErrUserNotFound
	}
	return nil
}
