package notifications

import (
	"context"
	"errors"
)

// AddressResolver finds the email address a record should be delivered to.
// An empty address with a nil error means none is known.
type AddressResolver interface {
	ResolveAddress(ctx context.Context, rec Record) (string, error)
}

// AddressResolverFunc adapts a function to AddressResolver.
type AddressResolverFunc func(ctx context.Context, rec Record) (string, error)

func (f AddressResolverFunc) ResolveAddress(ctx context.Context, rec Record) (string, error) {
	return f(ctx, rec)
}

// UserDirectory looks up a user's own email address.
type UserDirectory interface {
	EmailOf(ctx context.Context, userID string) (string, error)
}

// RelatedUserAddress uses the email of the related user snapshot carried by
// the request. Note this is the counterpart of the notification, not its owner:
// a mentor's booking notice goes to the student's address when one is set.
func RelatedUserAddress() AddressResolver {
	return AddressResolverFunc(func(_ context.Context, rec Record) (string, error) {
		if rec.RelatedUser == nil {
			return "", nil
		}
		return rec.RelatedUser.Email, nil
	})
}

// OwnerAddress looks up the notification owner's address in dir.
func OwnerAddress(dir UserDirectory) AddressResolver {
	return AddressResolverFunc(func(ctx context.Context, rec Record) (string, error) {
		return dir.EmailOf(ctx, rec.UserID)
	})
}

// FirstAddress tries resolvers in order and returns the first non-empty address.
// Resolver errors are returned only when no resolver produced an address.
func FirstAddress(resolvers ...AddressResolver) AddressResolver {
	return AddressResolverFunc(func(ctx context.Context, rec Record) (string, error) {
		var errs []error
		for _, r := range resolvers {
			addr, err := r.ResolveAddress(ctx, rec)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if addr != "" {
				return addr, nil
			}
		}
		if len(errs) > 0 {
			return "", errors.Join(append([]error{ErrNoRecipient}, errs...)...)
		}
		return "", nil
	})
}
