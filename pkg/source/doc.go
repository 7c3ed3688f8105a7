// Package source provides a uniform read-only view over a file's bytes.
//
// Small files are read into an owned buffer; files at or above a size
// threshold (100 MiB by default) are memory mapped so that multi-gigabyte
// inputs are paged in by the OS instead of copied.
//
//	src, err := source.Open("/data/capture.raw")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	frame, err := src.Read(0, 640*512)
//
// A [Loader] keeps exactly one live source and closes the previous one when
// a new file is loaded.
package source
