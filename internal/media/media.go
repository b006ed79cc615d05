// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media defines the boundary to the external media-hosting store.

Profile imagery (avatars, cover images) staged by the multipart layer is
pushed to an S3-compatible object store and addressed afterwards only by its
public URL.

# Architecture

  - Asset: A staged upload (stream + metadata), decoupled from net/http.
  - Store: The upload contract consumed by the account domain.
  - MinioStore: The production implementation (minio-go).

Upload failures are terminal for the calling request. There is no retry
policy at this layer; callers surface the failure immediately.
*/
package media

import (
	"context"
	"io"
)

// Asset represents a single staged upload ready to be pushed to the store.
type Asset struct {
	// Name is the client-provided file name, used only to derive the extension.
	Name string

	// ContentType is the MIME type reported by the multipart part.
	ContentType string

	// Size is the byte length of the content, required by the object store.
	Size int64

	// Content is the staged file stream.
	Content io.Reader
}

// # Store Contract

// Store defines the upload contract for profile media.
type Store interface {

	/*
		Upload pushes the asset to the media store under the given folder.

		Parameters:
		  - context: context.Context
		  - folder: string (Logical grouping, e.g. "avatars", "covers")
		  - asset: Asset

		Returns:
		  - string: Publicly reachable URL of the stored object
		  - error: Connectivity or storage failures
	*/
	Upload(context context.Context, folder string, asset Asset) (string, error)
}
