package diff_test

import "github.com/lumenvcs/lumen/plumbing"

func plumbingZero() plumbing.Oid {
	return plumbing.NullOid
}

func plumbingNonZero() plumbing.Oid {
	return plumbing.FromContent([]byte("content"))
}
