package scan

import "sort"

// groupFiles aggregates successfully hashed files by digest and keeps groups
// with at least two members. Input order does not matter: both group order
// and member order are reconstituted from discovery sequence numbers, so the
// result is identical no matter how many hashing workers ran.
func groupFiles(files []*File) []Group {
	hashed := make([]*File, 0, len(files))
	for _, f := range files {
		if f.Err != nil || f.Digest == "" {
			continue
		}
		hashed = append(hashed, f)
	}
	sort.Slice(hashed, func(i, j int) bool { return hashed[i].Seq < hashed[j].Seq })

	order := make([]string, 0)
	members := make(map[string][]*File)
	for _, f := range hashed {
		if _, ok := members[f.Digest]; !ok {
			order = append(order, f.Digest)
		}
		members[f.Digest] = append(members[f.Digest], f)
	}

	groups := make([]Group, 0)
	for _, digest := range order {
		if len(members[digest]) < 2 {
			continue
		}
		groups = append(groups, Group{Digest: digest, Files: members[digest]})
	}
	return groups
}
