package storage

import (
	"context"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/pkg/errors"
)

// AzureBlobStore is an Azure Blob Storage implementation of BlobStore.
type AzureBlobStore struct {
	client    *azblob.Client
	container string
}

// NewAzureBlobStore creates an AzureBlobStore from a storage account
// connection string.
func NewAzureBlobStore(connectionString, container string) (*AzureBlobStore, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create blob client")
	}
	return &AzureBlobStore{client: client, container: container}, nil
}

// Container returns the container name.
func (s *AzureBlobStore) Container() string { return s.container }

// List returns every blob in the container.
func (s *AzureBlobStore) List(ctx context.Context) ([]Blob, error) {
	var blobs []Blob
	pager := s.client.NewListBlobsFlatPager(s.container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list container %s", s.container)
		}
		if page.Segment == nil {
			continue
		}
		for _, item := range page.Segment.BlobItems {
			if item == nil || item.Name == nil {
				continue
			}
			b := Blob{Name: *item.Name}
			if props := item.Properties; props != nil {
				if props.ContentLength != nil {
					b.Size = *props.ContentLength
				}
				b.LastModified = props.LastModified
			}
			blobs = append(blobs, b)
		}
	}
	return blobs, nil
}

// Download reads the whole blob into memory.
func (s *AzureBlobStore) Download(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download %s", name)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", name)
	}
	return data, nil
}

// unavailableStore fails every call with the error that prevented the real
// store from being built.
type unavailableStore struct {
	container string
	err       error
}

// Unavailable returns a BlobStore whose List and Download always return err.
func Unavailable(container string, err error) BlobStore {
	return &unavailableStore{container: container, err: err}
}

func (u *unavailableStore) Container() string { return u.container }

func (u *unavailableStore) List(context.Context) ([]Blob, error) { return nil, u.err }

func (u *unavailableStore) Download(context.Context, string) ([]byte, error) { return nil, u.err }
