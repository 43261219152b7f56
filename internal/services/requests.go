package services

type InspectRequest struct {
	Path string
}

type ApplyRequest struct {
	Folder string
	Note   string
}
