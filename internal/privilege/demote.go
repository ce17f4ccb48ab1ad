package privilege

import (
	"fmt"
	"os/user"
	"strconv"
)

const keepID = -1

// ResolveUser turns a user spec (account name or decimal uid) into a uid.
// An empty spec means "keep current" and resolves to -1.
func ResolveUser(spec string) (int, error) {
	if spec == "" {
		return keepID, nil
	}
	if uid, err := strconv.Atoi(spec); err == nil {
		if uid < 0 {
			return 0, fmt.Errorf("resolve user %q: negative uid", spec)
		}
		return uid, nil
	}
	account, err := user.Lookup(spec)
	if err != nil {
		return 0, fmt.Errorf("resolve user %q: %w", spec, err)
	}
	uid, err := strconv.Atoi(account.Uid)
	if err != nil {
		return 0, fmt.Errorf("resolve user %q: non-numeric uid %q", spec, account.Uid)
	}
	return uid, nil
}

// ResolveGroup turns a group spec (group name or decimal gid) into a gid.
// An empty spec means "keep current" and resolves to -1.
func ResolveGroup(spec string) (int, error) {
	if spec == "" {
		return keepID, nil
	}
	if gid, err := strconv.Atoi(spec); err == nil {
		if gid < 0 {
			return 0, fmt.Errorf("resolve group %q: negative gid", spec)
		}
		return gid, nil
	}
	account, err := user.LookupGroup(spec)
	if err != nil {
		return 0, fmt.Errorf("resolve group %q: %w", spec, err)
	}
	gid, err := strconv.Atoi(account.Gid)
	if err != nil {
		return 0, fmt.Errorf("resolve group %q: non-numeric gid %q", spec, account.Gid)
	}
	return gid, nil
}
