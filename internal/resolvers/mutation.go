package resolvers

import (
	"context"
	"log"
	"strings"

	"launch-booking/internal/auth"

	graphql "github.com/graph-gophers/graphql-go"
)

const (
	msgNotLoggedIn   = "you must be logged in to book or cancel trips"
	msgBooked        = "trips booked successfully"
	msgNotBooked     = "the following launches couldn't be booked: "
	msgCancelled     = "trip cancelled"
	msgCancelFailed  = "failed to cancel trip"
	nullLaunchIDText = "null"
)

// BookTrips books the current user on every requested launch that exists. Null ids and
// unknown launches are reported as not booked.
func (r *Resolver) BookTrips(ctx context.Context, args struct{ LaunchIDs []*graphql.ID }) (*tripUpdateResponseResolver, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return &tripUpdateResponseResolver{message: msgNotLoggedIn}, nil
	}

	ids := make([]string, 0, len(args.LaunchIDs))
	for _, id := range args.LaunchIDs {
		if id != nil {
			ids = append(ids, string(*id))
		}
	}

	found, err := r.launches.GetLaunchesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	existing := make([]string, 0, len(found))
	for _, launch := range found {
		existing = append(existing, launch.ID)
	}

	booked, err := r.db.BookTrips(ctx, user.ID, existing)
	if err != nil {
		return nil, err
	}

	resp := &tripUpdateResponseResolver{
		success:  len(booked) == len(args.LaunchIDs),
		launches: r.launchResolvers(found),
	}
	if resp.success {
		resp.message = msgBooked
	} else {
		resp.message = msgNotBooked + strings.Join(notBooked(args.LaunchIDs, booked), ", ")
		log.Printf("User %d could not book launches: %s", user.ID, resp.message)
	}
	return resp, nil
}

func (r *Resolver) CancelTrip(ctx context.Context, args struct{ LaunchID graphql.ID }) (*tripUpdateResponseResolver, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return &tripUpdateResponseResolver{message: msgNotLoggedIn}, nil
	}

	ok, err := r.db.CancelTrip(ctx, user.ID, string(args.LaunchID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return &tripUpdateResponseResolver{message: msgCancelFailed}, nil
	}

	launch, err := r.launches.GetLaunchByID(ctx, string(args.LaunchID))
	if err != nil {
		return nil, err
	}
	resp := &tripUpdateResponseResolver{success: true, message: msgCancelled, launches: []*launchResolver{}}
	if launch != nil {
		resp.launches = append(resp.launches, &launchResolver{r: r, launch: *launch})
	}
	return resp, nil
}

// Login returns a token for a valid email address, registering the user on first login.
func (r *Resolver) Login(ctx context.Context, args struct{ Email *string }) (*string, error) {
	if args.Email == nil || !auth.ValidEmail(*args.Email) {
		return nil, nil
	}
	user, err := r.db.FindOrCreateUser(ctx, *args.Email)
	if err != nil {
		return nil, err
	}
	token := auth.Token(user.Email)
	return &token, nil
}

func notBooked(requested []*graphql.ID, booked []string) []string {
	done := make(map[string]bool, len(booked))
	for _, id := range booked {
		done[id] = true
	}
	var missing []string
	for _, id := range requested {
		switch {
		case id == nil:
			missing = append(missing, nullLaunchIDText)
		case !done[string(*id)]:
			missing = append(missing, string(*id))
		}
	}
	return missing
}
