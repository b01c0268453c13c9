package walker

import (
	"sort"

	"golang.org/x/sys/unix"
)

// readDirSorted opens dir, reads every entry via raw getdents64, and
// returns them sorted by name. Sorting trades a little CPU for the
// determinism serial walks promise regardless of on-disk directory
// order.
func readDirSorted(dir string) ([]Dirent, error) {
	fd, err := unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_NOATIME, 0)
	if err != nil {
		fd, err = unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY, 0)
		if err != nil {
			return nil, err
		}
	}
	defer unix.Close(fd)

	buf := make([]byte, 32*1024)
	var entries []Dirent
	var chunk []Dirent
	for {
		n, err := unix.Getdents(fd, buf)
		if err != nil {
			return entries, err
		}
		if n == 0 {
			break
		}
		chunk = ParseDirents(buf, n, chunk)
		entries = append(entries, chunk...)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func statFollow(path string) (unix.Stat_t, error) {
	var st unix.Stat_t
	err := unix.Stat(path, &st)
	return st, err
}
