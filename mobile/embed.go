//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// 构建前需要把根目录的 assets/ 和 data/pages、data/models 复制到本目录：
//
//	cp -r assets mobile/ && mkdir -p mobile/data && cp -r data/pages data/models mobile/data/
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:embed all:assets
var assetsFS embed.FS

//go:embed data/pages data/models
var dataFS embed.FS
