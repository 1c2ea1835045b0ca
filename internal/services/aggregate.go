package services

import (
	"context"
	"fmt"

	"github.com/workmood/workmood-backend/database"
	"github.com/workmood/workmood-backend/model"
	"github.com/workmood/workmood-backend/util"
)

// ReplaceOrganization swaps the stored aggregate for next, keyed on the old
// document's key. Credential fields never pass through unprocessed: with
// rehash they are digested from the plaintext in next, without it they are
// restored from old so a routine update cannot clobber them.
//
// There is no version token. Two concurrent replacements of the same
// aggregate both succeed and the last writer wins; callers that cannot
// tolerate a lost update must serialize externally.
func ReplaceOrganization(ctx context.Context, store database.Store, old model.Organization, next model.Organization, rehash bool) (model.Organization, error) {
	next.Key = old.Key

	if rehash {
		next.OrgKey = util.HashCredential(next.OrgKey)
		next.Password = util.HashCredential(next.Password)
		next.AuthKey = util.HashCredential(next.AuthKey)
	} else {
		next.OrgKey = old.OrgKey
		next.Password = old.Password
		next.AuthKey = old.AuthKey
	}

	var replaced model.Organization
	filter := database.Filter{"_key": old.Key}
	if err := store.ReplaceOne(ctx, database.CollectionOrganizations, filter, next, &replaced); err != nil {
		return model.Organization{}, fmt.Errorf("replacing organization %s: %w", old.Key, err)
	}
	return replaced, nil
}
