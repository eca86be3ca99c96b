package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// auth
	RouteAuth     = RouteApiV1 + "/auth"
	RouteLogin    = RouteAuth + "/login"
	RouteRegister = RouteAuth + "/register"

	RouteProfile = RouteApiV1 + "/profile"

	// owned files
	RouteFiles    = RouteApiV1 + "/files"
	RouteFile     = RouteFiles + "/:file_id"
	RouteFileLink = RouteFile + "/link"

	// public
	RouteDownloadBase = RouteApiV1 + "/download"
	RouteDownload     = RouteDownloadBase + "/:token"
	RouteDrops        = RouteApiV1 + "/drops"

	// admin
	RouteAdminStats = RouteApiV1 + "/admin/stats"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
