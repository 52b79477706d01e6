// Package jpak packs a tree of files into a single archive file and unpacks
// it again.
//
// An archive stores file contents in LZMA-compressed blocks. Small files are
// clumped into shared blocks until a block reaches the clump threshold, which
// keeps the ratio high while any single file can still be recovered by
// decoding only the block that holds it. Entry metadata lives in a columnar
// index, itself compressed, located through a fixed 28-byte footer.
//
// # Packing
//
//	summary, err := jpak.Pack(ctx, "site.jpak", []string{"./public"},
//	    jpak.PackWithClumpThreshold(4<<20),
//	    jpak.PackWithExcludes("**/*.tmp"),
//	)
//
// [Write] produces an archive from an explicit entry list onto any
// io.Writer.
//
// # Unpacking
//
//	summary, err := jpak.Unpack(ctx, "site.jpak", "./out")
//
// For finer control open the archive and work with it directly:
//
//	af, err := jpak.Open("site.jpak")
//	if err != nil {
//	    return err
//	}
//	defer af.Close()
//	for _, e := range af.Entries() {
//	    fmt.Println(e.Path, e.Size)
//	}
//	data, err := af.ReadFile("index.html")
//
// Ownership, timestamps and permission bits are recorded in the index but
// are not applied when extracting.
package jpak
