package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alumniconnect/internal/events"
	"alumniconnect/internal/model"
	"alumniconnect/internal/store"
)

// SendConnectionRequest queues fromID in toID's incoming requests. Repeating a
// request, or requesting an existing connection, changes nothing.
func (r *kvRepository) SendConnectionRequest(ctx context.Context, fromID, toID string) error {
	if fromID == toID {
		return nil
	}

	var requester model.User
	rev, changed, err := r.store.Users.Update(ctx, func(users []model.User) ([]model.User, bool) {
		fi, ti := indexOfUser(users, fromID), indexOfUser(users, toID)
		if fi < 0 || ti < 0 {
			return users, false
		}
		target := &users[ti]
		if target.IsConnectedTo(fromID) || target.HasRequestFrom(fromID) {
			return users, false
		}
		target.IncomingRequests = append(target.IncomingRequests, fromID)
		requester = users[fi]
		return users, true
	})
	if err != nil {
		return fmt.Errorf("failed to send connection request: %w", err)
	}
	if !changed {
		return nil
	}

	r.log.Debug("connection requested", zap.String("from", fromID), zap.String("to", toID))
	r.publish(ctx, events.ConnectionRequested, store.CollectionUsers, rev, fromID, toID)

	_, err = r.CreateNotification(ctx, model.Notification{
		UserID:      toID,
		ActorID:     requester.ID,
		ActorName:   requester.Name,
		ActorAvatar: requester.Avatar,
		Type:        model.NotificationConnectionRequest,
		Content:     model.ContentConnectionRequest,
	})
	return err
}

// AcceptConnectionRequest connects both users and clears the request from the
// accepter's queue. A request the accepter may have sent the other way is left
// untouched. Unless both users exist nothing is written and no one is notified.
func (r *kvRepository) AcceptConnectionRequest(ctx context.Context, accepterID, requesterID string) error {
	if accepterID == requesterID {
		return nil
	}

	var (
		accepter model.User
		found    bool
	)
	rev, changed, err := r.store.Users.Update(ctx, func(users []model.User) ([]model.User, bool) {
		ai, ri := indexOfUser(users, accepterID), indexOfUser(users, requesterID)
		found = ai >= 0 && ri >= 0
		if !found {
			return users, false
		}
		changed := false

		a, req := &users[ai], &users[ri]
		if !a.IsConnectedTo(requesterID) {
			a.Connections = append(a.Connections, requesterID)
			changed = true
		}
		if a.HasRequestFrom(requesterID) {
			a.IncomingRequests = removeID(a.IncomingRequests, requesterID)
			changed = true
		}
		if !req.IsConnectedTo(accepterID) {
			req.Connections = append(req.Connections, accepterID)
			changed = true
		}
		accepter = *a
		return users, changed
	})
	if err != nil {
		return fmt.Errorf("failed to accept connection request: %w", err)
	}
	if !found {
		r.log.Debug("accept with unknown user ignored",
			zap.String("accepter", accepterID), zap.String("requester", requesterID))
		return nil
	}
	if changed {
		r.publish(ctx, events.ConnectionAccepted, store.CollectionUsers, rev, accepterID, requesterID)
	}

	_, err = r.CreateNotification(ctx, model.Notification{
		UserID:      requesterID,
		ActorID:     accepter.ID,
		ActorName:   accepter.Name,
		ActorAvatar: accepter.Avatar,
		Type:        model.NotificationConnectionAccepted,
		Content:     model.ContentConnectionAccepted,
	})
	return err
}

// RejectConnectionRequest drops the request silently; the requester is not told.
func (r *kvRepository) RejectConnectionRequest(ctx context.Context, currentID, requesterID string) error {
	rev, changed, err := r.store.Users.Update(ctx, func(users []model.User) ([]model.User, bool) {
		i := indexOfUser(users, currentID)
		if i < 0 || !users[i].HasRequestFrom(requesterID) {
			return users, false
		}
		users[i].IncomingRequests = removeID(users[i].IncomingRequests, requesterID)
		return users, true
	})
	if err != nil {
		return fmt.Errorf("failed to reject connection request: %w", err)
	}
	if changed {
		r.publish(ctx, events.ConnectionRejected, store.CollectionUsers, rev, currentID)
	}
	return nil
}
