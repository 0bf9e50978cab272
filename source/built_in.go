// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gorse-io/pairwise/base/log"
)

type builtInDataset struct {
	url  string
	path string
	sep  string
}

var builtInDatasets = map[string]builtInDataset{
	"ml-100k": {
		url:  "https://cdn.gorse.io/datasets/ml-100k.zip",
		path: "ml-100k/u.data",
		sep:  "\t",
	},
	"ml-1m": {
		url:  "https://cdn.gorse.io/datasets/ml-1m.zip",
		path: "ml-1m/ratings.dat",
		sep:  "::",
	},
}

// The data directories
var (
	tempDir    string
	datasetDir string
)

func init() {
	usr, err := user.Current()
	if err != nil {
		log.Logger().Fatal("failed to get user directory", zap.Error(err))
	}
	datasetDir = filepath.Join(usr.HomeDir, ".pairwise", "dataset")
	tempDir = filepath.Join(usr.HomeDir, ".pairwise", "temp")
}

// BuiltIn loads a named public dataset, downloading and caching it on first
// use. Supported names: ml-100k, ml-1m.
type BuiltIn struct {
	name string
}

func NewBuiltIn(name string) *BuiltIn {
	return &BuiltIn{name: name}
}

func (s *BuiltIn) Produce(ctx context.Context) ([]Rating, error) {
	dataset, exist := builtInDatasets[s.name]
	if !exist {
		return nil, errors.Errorf("no such dataset %s", s.name)
	}
	dataFile := filepath.Join(datasetDir, dataset.path)
	if _, err := os.Stat(dataFile); os.IsNotExist(err) {
		zipFile, err := downloadFromUrl(dataset.url, tempDir)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if _, err := unzip(zipFile, datasetDir); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return NewTSV(dataFile, dataset.sep, false).Produce(ctx)
}

// downloadFromUrl downloads file from URL.
func downloadFromUrl(src, dst string) (string, error) {
	log.Logger().Info("download dataset", zap.String("source", src), zap.String("destination", dst))
	// Extract file name
	tokens := strings.Split(src, "/")
	fileName := filepath.Join(dst, tokens[len(tokens)-1])
	// Create file
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return fileName, errors.Trace(err)
	}
	output, err := os.Create(fileName)
	if err != nil {
		return fileName, errors.Trace(err)
	}
	defer output.Close()
	// Download file
	response, err := http.Get(src)
	if err != nil {
		return fileName, errors.Trace(err)
	}
	defer response.Body.Close()
	// Save file
	pbReader := progressbar.NewReader(response.Body, progressbar.DefaultBytes(
		response.ContentLength,
		fmt.Sprintf("Downloading %s", tokens[len(tokens)-1]),
	))
	if _, err = io.Copy(output, &pbReader); err != nil {
		return fileName, errors.Trace(err)
	}
	return fileName, nil
}

// unzip zip file.
func unzip(src, dst string) ([]string, error) {
	var fileNames []string
	// Open zip file
	r, err := zip.OpenReader(src)
	if err != nil {
		return fileNames, errors.Trace(err)
	}
	defer r.Close()
	// Extract files
	for _, f := range r.File {
		// Open file
		rc, err := f.Open()
		if err != nil {
			return fileNames, errors.Trace(err)
		}
		// Store filename/path for returning and using later on
		filePath := filepath.Join(dst, f.Name)
		// Check for ZipSlip. More Info: http://bit.ly/2MsjAWE
		if !strings.HasPrefix(filePath, filepath.Clean(dst)+string(os.PathSeparator)) {
			return fileNames, errors.Errorf("%s: illegal file path", filePath)
		}
		// Add filename
		fileNames = append(fileNames, filePath)
		if f.FileInfo().IsDir() {
			// Create folder
			if err = os.MkdirAll(filePath, os.ModePerm); err != nil {
				return fileNames, errors.Trace(err)
			}
		} else {
			// Create all folders
			if err = os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
				return fileNames, errors.Trace(err)
			}
			// Create file
			outFile, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
			if err != nil {
				return fileNames, errors.Trace(err)
			}
			// Save file
			_, err = io.Copy(outFile, rc)
			if err != nil {
				return nil, errors.Trace(err)
			}
			// Close the file without defer to close before next iteration of loop
			err = outFile.Close()
			if err != nil {
				return nil, errors.Trace(err)
			}
		}
		// Close file
		err = rc.Close()
		if err != nil {
			return nil, errors.Trace(err)
		}
	}
	return fileNames, nil
}
