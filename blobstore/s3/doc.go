// Package s3 provides an Amazon S3 implementation of the blobstore.Store
// interface, plus a DynamoDB-backed snapshot.PointerStore for atomic
// version commits across concurrent writers.
//
// # Usage
//
//	store, err := s3.NewStoreFromConfig(ctx, "my-bucket", "snapshots/")
//	if err != nil {
//	    return err
//	}
//
//	mgr := snapshot.NewManager(store)
//
// With multiple writers, commit versions through DynamoDB instead of the
// default CURRENT blob:
//
//	pointers := s3.NewPointerStore(dynamodb.NewFromConfig(cfg), "bitkit-snapshots")
//	mgr := snapshot.NewManager(store, snapshot.WithPointerStore(pointers))
package s3
