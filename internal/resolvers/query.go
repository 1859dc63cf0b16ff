package resolvers

import (
	"context"

	"launch-booking/internal/auth"

	graphql "github.com/graph-gophers/graphql-go"
)

func (r *Resolver) Launches(ctx context.Context) ([]*launchResolver, error) {
	all, err := r.launches.GetAllLaunches(ctx)
	if err != nil {
		return nil, err
	}
	return r.launchResolvers(all), nil
}

func (r *Resolver) Launch(ctx context.Context, args struct{ ID graphql.ID }) (*launchResolver, error) {
	launch, err := r.launches.GetLaunchByID(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	if launch == nil {
		return nil, nil
	}
	return &launchResolver{r: r, launch: *launch}, nil
}

func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, nil
	}
	return &userResolver{r: r, user: *user}, nil
}
