package helpers

import (
	"fmt"
	"os/user"
	"strconv"

	"github.com/quantmind-br/brewpkg/internal/core"
)

// UserLookup resolves an account name to an execution context
type UserLookup func(username string) (core.ExecutionContext, error)

// LookupExecutionContext resolves username through the system user database.
// An empty username resolves to the current user.
func LookupExecutionContext(username string) (core.ExecutionContext, error) {
	var (
		u   *user.User
		err error
	)
	if username == "" {
		u, err = user.Current()
	} else {
		u, err = user.Lookup(username)
	}
	if err != nil {
		return core.ExecutionContext{}, fmt.Errorf("%w: %q: %v", core.ErrUserLookup, username, err)
	}

	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return core.ExecutionContext{}, fmt.Errorf("%w: invalid uid %q for %s", core.ErrUserLookup, u.Uid, u.Username)
	}
	gid, err := strconv.ParseUint(u.Gid, 10, 32)
	if err != nil {
		return core.ExecutionContext{}, fmt.Errorf("%w: invalid gid %q for %s", core.ErrUserLookup, u.Gid, u.Username)
	}

	return core.ExecutionContext{
		RunAsUser:     u.Username,
		HomeDirectory: u.HomeDir,
		UID:           uint32(uid),
		GID:           uint32(gid),
		Groups:        groupIDs(u, uint32(gid)),
		Environment: map[string]string{
			"HOME":    u.HomeDir,
			"USER":    u.Username,
			"LOGNAME": u.Username,
		},
	}, nil
}

// groupIDs lists the numeric groups u belongs to. When the group database
// cannot be read only the primary group is returned.
func groupIDs(u *user.User, primary uint32) []uint32 {
	ids, err := u.GroupIds()
	if err != nil {
		return []uint32{primary}
	}

	groups := make([]uint32, 0, len(ids)+1)
	seen := map[uint32]bool{}
	for _, id := range append([]string{strconv.FormatUint(uint64(primary), 10)}, ids...) {
		n, err := strconv.ParseUint(id, 10, 32)
		if err != nil || seen[uint32(n)] {
			continue
		}
		seen[uint32(n)] = true
		groups = append(groups, uint32(n))
	}
	return groups
}
