package downloader

const (
	DownloadFolderPerm = 0755
	DownloadFilePerm   = 0644

	// suffix of in-progress downloads, which are renamed into place once
	// the transfer completes
	PartialSuffix = ".part"
)
