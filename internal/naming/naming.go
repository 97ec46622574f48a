// Package naming derives snapshot file names and provider keys from
// (application id, namespace) pairs, and reverses the file name mapping
// during disaster recovery.
package naming

import (
	"path/filepath"
	"strings"
)

// SnapshotExt is the extension of snapshot files. Anything else found in a
// cache directory (editor swap files, temp files of interrupted writes) is
// not a snapshot.
const SnapshotExt = ".conf"

// FileName returns "{appID}_{namespace}.conf".
func FileName(appID, namespace string) string {
	return appID + "_" + namespace + SnapshotExt
}

// ParseFileName returns the namespace encoded in name when name is a snapshot
// file of appID. The namespace is everything between the "{appID}_" prefix and
// the extension, so namespaces containing '_' or '.' survive the round trip.
func ParseFileName(appID, name string) (string, bool) {
	if filepath.Ext(name) != SnapshotExt {
		return "", false
	}
	prefix := appID + "_"
	base := strings.TrimSuffix(name, SnapshotExt)
	if !strings.HasPrefix(base, prefix) {
		return "", false
	}
	ns := base[len(prefix):]
	if ns == "" {
		return "", false
	}
	return ns, true
}

// SnapshotKey is the provider key of one namespace snapshot.
func SnapshotKey(appID, namespace string) string {
	return "snapshot:" + appID + ":" + namespace
}

// IndexKey is the provider key listing every namespace stored for appID.
func IndexKey(appID string) string {
	return "snapshot-index:" + appID
}
