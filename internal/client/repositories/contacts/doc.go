// Package contacts stores the roster fetched by contact sync in the local
// SQLite database.
//
// A sync run upserts every fetched contact stamped with the run time, then
// deletes rows stamped earlier. Run both inside dbx.WithTx so readers never
// see a half-replaced roster:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//		repo := contacts.NewSQLiteRepository(tx)
//		for _, c := range fetched {
//			if err := repo.Upsert(ctx, c, now); err != nil {
//				return err
//			}
//		}
//		return repo.DeleteStale(ctx, now)
//	})
package contacts
