package index

var (
	bOutputs = []byte("outputs") // rel output path -> entryBytes
	bMeta    = []byte("meta")    // fixed keys below

	kFingerprint = []byte("fingerprint")
	kBuilds      = []byte("builds")
)
