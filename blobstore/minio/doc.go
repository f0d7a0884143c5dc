// Package minio provides a blobstore.Store implementation for MinIO and
// other S3-compatible object stores.
//
// # Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds: credentials.NewStaticV4(accessKey, secretKey, ""),
//	})
//	if err != nil {
//	    return err
//	}
//
//	store := miniostore.NewStore(client, "my-bucket", "snapshots/")
//	mgr := snapshot.NewManager(store)
package minio
