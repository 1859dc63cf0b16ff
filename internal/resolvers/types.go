package resolvers

import (
	"context"
	"strconv"

	"launch-booking/internal/auth"
	"launch-booking/internal/models"
	"launch-booking/internal/schema"

	graphql "github.com/graph-gophers/graphql-go"
)

type launchResolver struct {
	r      *Resolver
	launch models.Launch
}

func (r *Resolver) launchResolvers(launches []models.Launch) []*launchResolver {
	out := make([]*launchResolver, 0, len(launches))
	for _, l := range launches {
		out = append(out, &launchResolver{r: r, launch: l})
	}
	return out
}

func (l *launchResolver) ID() graphql.ID {
	return graphql.ID(l.launch.ID)
}

func (l *launchResolver) Site() *string {
	return nullable(l.launch.Site)
}

func (l *launchResolver) Mission() *missionResolver {
	return &missionResolver{mission: l.launch.Mission}
}

func (l *launchResolver) Rocket() *rocketResolver {
	if l.launch.Rocket.ID == "" {
		return nil
	}
	return &rocketResolver{rocket: l.launch.Rocket}
}

// IsBooked is false for anonymous callers.
func (l *launchResolver) IsBooked(ctx context.Context) (bool, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return false, nil
	}
	return l.r.db.IsBookedOnLaunch(ctx, user.ID, l.launch.ID)
}

type missionResolver struct {
	mission models.Mission
}

func (m *missionResolver) Name() *string {
	return nullable(m.mission.Name)
}

// MissionPatch defaults to the large patch when size is omitted.
func (m *missionResolver) MissionPatch(args struct{ Size *string }) *string {
	size := schema.PatchSizeLarge
	if args.Size != nil {
		size = *args.Size
	}
	return nullable(m.mission.Patch(size))
}

type rocketResolver struct {
	rocket models.Rocket
}

func (r *rocketResolver) ID() graphql.ID {
	return graphql.ID(r.rocket.ID)
}

func (r *rocketResolver) Name() *string {
	return nullable(r.rocket.Name)
}

func (r *rocketResolver) Type() *string {
	return nullable(r.rocket.Type)
}

type userResolver struct {
	r    *Resolver
	user models.User
}

func (u *userResolver) ID() graphql.ID {
	return graphql.ID(strconv.FormatInt(u.user.ID, 10))
}

func (u *userResolver) Email() string {
	return u.user.Email
}

func (u *userResolver) Trips(ctx context.Context) ([]*launchResolver, error) {
	ids, err := u.r.db.GetLaunchIDsByUser(ctx, u.user.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*launchResolver{}, nil
	}
	launches, err := u.r.launches.GetLaunchesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return u.r.launchResolvers(launches), nil
}

type tripUpdateResponseResolver struct {
	success  bool
	message  string
	launches []*launchResolver
}

func (t *tripUpdateResponseResolver) Success() bool {
	return t.success
}

func (t *tripUpdateResponseResolver) Message() *string {
	return nullable(t.message)
}

// Launches is null when the operation did not resolve any launches.
func (t *tripUpdateResponseResolver) Launches() *[]*launchResolver {
	if t.launches == nil {
		return nil
	}
	return &t.launches
}
