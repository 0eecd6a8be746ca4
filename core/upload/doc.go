// Package upload decides whether an uploaded file may be stored.
//
// A file passes when its extension and declared content type are both on the
// allow-list and its leading bytes sniff as the kind the extension promises.
// Sniffing uses gabriel-vasile/mimetype, so a JPEG renamed to .png or a
// script declared as application/pdf is rejected.
//
// Wrap validates a stream without buffering it: it peeks the first HeadSize
// bytes, checks them and returns a reader that replays those bytes followed
// by the rest of the stream.
//
//	r, err := upload.DefaultValidator.Wrap(hdr.Filename, hdr.Header.Get("Content-Type"), file)
//	if err != nil {
//		// errors.Is(err, upload.ErrValidationFailed)
//	}
//	rel, err := store.SaveFile(ctx, dir, hdr.Filename, r)
package upload
